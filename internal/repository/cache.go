package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/paths"
	"github.com/quarrypkg/quarry/internal/version"
)

// Maintains local working copies of recipe repositories and resolves
// package atoms to recipe files.
type Cache struct {
	cfg  *config.Config
	refs []Ref
}

// An ephemeral pairing of a parsed version and the recipe file that
// declares it. Produced during lookup, never persisted.
type candidate struct {
	version version.Value
	path    string
}

// Creates a cache over the configured repositories.
func New(cfg *config.Config) *Cache {
	refs := make([]Ref, 0, len(cfg.Repositories))
	for _, entry := range cfg.Repositories {
		refs = append(refs, ParseRef(entry))
	}
	return &Cache{cfg: cfg, refs: refs}
}

// Synchronizes every version-controlled repository's working copy.
//
// Absent clones are created; present clones are fast-forwarded. A clone
// with uncommitted modifications, or one whose history has diverged
// from the remote, is local drift: synchronization refuses to proceed
// rather than discard edits or merge. Local-directory refs never
// participate.
func (c *Cache) Refresh(ctx context.Context) error {
	if err := os.MkdirAll(c.cfg.RepositoryCacheDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUninitialized, err)
	}

	for _, ref := range c.refs {
		if ref.Kind != KindGit {
			slog.Debug("skipping local repository", "path", ref.Path)
			continue
		}
		if err := c.refreshGit(ctx, ref); err != nil {
			return err
		}
	}

	return nil
}

// Destroys and re-clones every version-controlled working copy.
//
// A full cache rebuild, used to recover from a corrupted cache.
func (c *Cache) Reset(ctx context.Context) error {
	if err := os.MkdirAll(c.cfg.RepositoryCacheDir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUninitialized, err)
	}

	for _, ref := range c.refs {
		if ref.Kind != KindGit {
			continue
		}

		local := ref.CachePath(c.cfg.RepositoryCacheDir)
		if _, err := os.Stat(local); err == nil {
			slog.Debug("removing cached repository", "path", local)
			if err := os.RemoveAll(local); err != nil {
				return fmt.Errorf("%w: %w", ErrRefresh, err)
			}
		}

		if err := c.refreshGit(ctx, ref); err != nil {
			return err
		}
	}

	return nil
}

// Clones or fast-forwards one version-controlled repository.
func (c *Cache) refreshGit(ctx context.Context, ref Ref) error {
	local := ref.CachePath(c.cfg.RepositoryCacheDir)

	if _, err := os.Stat(local); os.IsNotExist(err) {
		slog.Info("cloning repository", "url", ref.Path, "dest", local)

		if _, err := git.PlainCloneContext(ctx, local, false, &git.CloneOptions{URL: ref.Path}); err != nil {
			return fmt.Errorf("%w: clone %s: %w", ErrRefresh, ref.Path, err)
		}
		return nil
	}

	slog.Info("updating repository", "url", ref.Path, "dest", local)

	repo, err := git.PlainOpen(local)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrRefresh, local, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefresh, err)
	}
	if !status.IsClean() {
		return fmt.Errorf("%w: uncommitted changes in %s", ErrLocalDrift, local)
	}

	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return fmt.Errorf("%w: %s has diverged from its remote", ErrLocalDrift, local)
	case err != nil:
		return fmt.Errorf("%w: pull %s: %w", ErrRefresh, local, err)
	}

	return nil
}

// Resolves a package atom to a recipe file path.
//
// An atom that is itself an existing filesystem path bypasses the
// repository search entirely. Otherwise every repository is searched in
// configured order, across every stream in configured order, and all
// candidates are pooled before version selection. Returns an empty path
// when nothing matches; "no such package" is an expected outcome, not
// an error.
func (c *Cache) FindRecipe(atom string) (string, error) {
	if atom == "" {
		return "", fmt.Errorf("%w: empty atom", ErrMalformedAtom)
	}

	if _, err := os.Stat(atom); err == nil {
		slog.Debug("atom is a direct recipe path", "path", atom)
		return atom, nil
	}

	if _, err := os.Stat(c.cfg.RepositoryCacheDir); err != nil {
		return "", fmt.Errorf("%w: %s (run 'quarry refresh' first)",
			ErrCacheUninitialized, c.cfg.RepositoryCacheDir)
	}

	name, requested, err := splitAtom(atom)
	if err != nil {
		return "", err
	}

	candidates := c.collect(name)
	if len(candidates) == 0 {
		slog.Debug("no recipes found", "name", name)
		return "", nil
	}

	values := make([]version.Value, 0, len(candidates))
	for _, cand := range candidates {
		values = append(values, cand.version)
	}

	selected, ok, err := version.Select(values, requested)
	if err != nil {
		return "", err
	}
	if !ok {
		slog.Debug("no matching version", "name", name, "requested", requested)
		return "", nil
	}

	for _, cand := range candidates {
		if cand.version.String() == selected.String() {
			slog.Debug("recipe resolved", "name", name, "version", selected.String(), "path", cand.path)
			return cand.path, nil
		}
	}

	return "", nil
}

// Splits an atom into name and optional requested version.
func splitAtom(atom string) (name, requested string, err error) {
	parts := strings.Split(atom, "/")
	if len(parts) > 2 {
		return "", "", fmt.Errorf("%w: %q (expected name or name/version)", ErrMalformedAtom, atom)
	}

	name = parts[0]
	if len(parts) == 2 {
		requested = parts[1]
	}

	return name, requested, nil
}

// Pools recipe candidates for a package name across every repository
// and stream.
//
// A file qualifies when it sits in a directory named after the package,
// carries the recipe suffix, and starts with "<name>-"; the remainder
// of the filename is its version. Files without an extractable version
// are skipped with a warning.
func (c *Cache) collect(name string) []candidate {
	var pool []candidate

	for _, ref := range c.refs {
		repoPath := ref.CachePath(c.cfg.RepositoryCacheDir)

		for _, stream := range c.cfg.PackageStreams {
			dir := filepath.Join(repoPath, stream, name)

			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}

			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}

				versionText, ok := recipeVersion(entry.Name(), name, c.cfg.RecipeSuffix)
				if !ok {
					continue
				}
				if versionText == "" {
					slog.Warn("recipe file has no version, skipping",
						"file", filepath.Join(dir, entry.Name()))
					continue
				}

				parsed, err := version.Parse(versionText)
				if err != nil {
					slog.Warn("recipe file has an unparseable version, skipping",
						"file", filepath.Join(dir, entry.Name()), "error", err)
					continue
				}

				pool = append(pool, candidate{
					version: parsed,
					path:    filepath.Join(dir, entry.Name()),
				})
			}
		}
	}

	return pool
}

// Extracts the version text from a recipe filename.
//
// Returns false when the file is not a recipe for the given package.
func recipeVersion(filename, name, suffix string) (string, bool) {
	if !strings.HasSuffix(filename, suffix) {
		return "", false
	}
	if !strings.HasPrefix(filename, name+"-") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(filename, name+"-"), suffix), true
}
