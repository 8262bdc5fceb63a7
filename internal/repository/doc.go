// Package repository maintains the local cache of recipe repositories.
//
// A repository is either a version-controlled remote, cloned under the
// cache root and kept in sync with fast-forward-only updates, or a
// plain local directory used in place. Lookup resolves a package atom
// ("name" or "name/version") to a recipe file by pooling candidates
// across every repository and stream, then applying version selection.
//
// The cache takes no locks: at most one process is expected to operate
// on a given cache root at a time.
package repository
