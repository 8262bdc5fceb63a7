package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/quarrypkg/quarry/internal/artifact"
	"github.com/quarrypkg/quarry/internal/fetch"
)

// Checksum value that exempts a source from verification.
const checksumSkip = "SKIP"

// Acquires, verifies, and stages every declared source.
//
// Remote sources are downloaded into the source directory; local ones
// are copied from an absolute path or from the recipe's directory.
// Each source is checksummed before anything is staged, so no recipe
// code ever runs against unverified inputs. Archive sources are
// unpacked in place, so their contents surface under the source
// directory too. A recipe with no sources skips this stage entirely,
// including the hook.
func (b *builder) stageSources(ctx context.Context) error {
	if len(b.desc.Sources) == 0 {
		slog.Debug("no sources declared, skipping")
		return nil
	}

	for i, source := range b.desc.Sources {
		local, err := b.acquireSource(ctx, source)
		if err != nil {
			return err
		}

		if err := verifyChecksum(local, b.desc.SHA256Sums[i]); err != nil {
			return err
		}

		if err := b.unpackSource(local); err != nil {
			return err
		}
	}

	return b.runHook(ctx, hookSources, b.workspace.Source, false)
}

// Materializes one source entry in the source directory.
func (b *builder) acquireSource(ctx context.Context, source string) (string, error) {
	if strings.Contains(source, "://") {
		if b.cfg.ShowDownloadProgress {
			slog.Info("downloading source", "url", source)
		} else {
			slog.Debug("downloading source", "url", source)
		}

		local, err := fetch.Download(ctx, source, b.workspace.Source)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
		}
		return local, nil
	}

	// An existing path is taken as-is; otherwise the entry is resolved
	// relative to the recipe's directory.
	path := source
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(filepath.Dir(b.recipePath), source)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
		}
	}

	slog.Debug("copying local source", "path", path)
	if err := copyPath(path, b.workspace.Source); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, source, err)
	}

	return filepath.Join(b.workspace.Source, filepath.Base(path)), nil
}

// Verifies a staged source against its declared checksum.
func verifyChecksum(path, expected string) error {
	if expected == checksumSkip {
		slog.Warn("checksum verification skipped", "source", filepath.Base(path))
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		// Directory sources carry no single checksum; only SKIP applies.
		return fmt.Errorf("%w: %s: directories require the SKIP checksum", ErrSourceIntegrity, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	sum, err := digest.Canonical.FromReader(f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if sum.Encoded() != expected {
		return fmt.Errorf("%w: %s: expected %s, got %s",
			ErrSourceIntegrity, filepath.Base(path), expected, sum.Encoded())
	}

	return nil
}

// Unpacks one verified archive source into the source directory.
//
// Non-archive sources are already in place and left untouched.
func (b *builder) unpackSource(local string) error {
	info, err := os.Stat(local)
	if err != nil || info.IsDir() || !artifact.IsArchive(local) {
		return nil
	}

	slog.Debug("extracting source archive", "archive", filepath.Base(local))
	if err := artifact.Extract(local, b.workspace.Source); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}
