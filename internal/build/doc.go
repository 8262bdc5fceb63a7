// Package build runs the packaging pipeline for one recipe.
//
// A build moves through fixed stages: a fresh workspace is laid out,
// sources are fetched, verified, and staged, the recipe's hooks run in
// order, and the populated package tree is finalized into an archive.
// Each stage must complete before the next starts, and a failed stage
// aborts the pipeline with the stage name attached to the error.
package build
