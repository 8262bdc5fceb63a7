// Package artifact produces the verifiable pieces of a finished
// package.
//
// A package carries three reserved files at its root: a per-file
// manifest of permissions, digests, and sizes; a build fingerprint
// keying a prospective binary cache; and a plain-text metadata record
// mirroring the recipe description. The populated package tree is
// finally compressed into a gzip tar archive.
package artifact
