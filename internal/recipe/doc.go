// Package recipe extracts structured package metadata from recipe
// scripts.
//
// A recipe is a shell-form file declaring identity, dependencies,
// sources, and optional lifecycle hook functions. Fields are fetched
// through a capability-query interface (is this name a variable or a
// function, and what does it yield) backed by an in-process shell
// interpreter that sources the script with a read-only filesystem.
// The result is an immutable Description consumed by the build
// pipeline.
package recipe
