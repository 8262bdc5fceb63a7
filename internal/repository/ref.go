package repository

import (
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"
)

// Kind of a configured recipe repository.
type RefKind int

const (
	// A version-controlled repository cloned into the cache.
	KindGit RefKind = iota

	// A plain directory on the local filesystem, used as-is.
	KindLocal
)

// One configured source of recipes.
type Ref struct {
	Kind RefKind // How the repository is accessed.
	Path string  // Remote URL or local directory path.
}

// Classifies a configured repository entry.
//
// Entries with a URL scheme or the scp-style git@ form are treated as
// version-controlled remotes; everything else is a local directory.
func ParseRef(entry string) Ref {
	trimmed := strings.TrimSpace(entry)

	if strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, "git@") {
		return Ref{Kind: KindGit, Path: trimmed}
	}
	return Ref{Kind: KindLocal, Path: trimmed}
}

// Returns the local directory holding this repository's working copy.
//
// Local refs resolve to their own path. Remote refs get a cache
// directory named after the repository with a digest suffix, so two
// remotes with the same basename never collide.
func (r Ref) CachePath(cacheRoot string) string {
	if r.Kind == KindLocal {
		return r.Path
	}

	base := strings.TrimSuffix(filepath.Base(r.Path), ".git")
	sum := digest.Canonical.FromString(r.Path).Encoded()[:12]

	return filepath.Join(cacheRoot, base+"-"+sum)
}
