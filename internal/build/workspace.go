package build

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/paths"
)

// The on-disk layout one build runs in.
//
// The three directories have fixed roles: sources land in Source,
// hooks run in Build, and packaging hooks install into Package. The
// whole tree is removed once the build settles.
type Workspace struct {
	Root    string
	Source  string
	Build   string
	Package string
}

// Lays out a fresh workspace for a build.
//
// A leftover workspace from an earlier run blocks the build unless the
// configuration asks for it to be deleted.
func newWorkspace(cfg *config.Config) (*Workspace, error) {
	if _, err := os.Stat(cfg.WorkspaceDir); err == nil {
		if !cfg.DeleteExistingWorkspace {
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, cfg.WorkspaceDir)
		}

		slog.Info("deleting existing workspace", "path", cfg.WorkspaceDir)
		if err := os.RemoveAll(cfg.WorkspaceDir); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}

	ws := &Workspace{
		Root:    cfg.WorkspaceDir,
		Source:  cfg.SourceDir(),
		Build:   cfg.BuildDir(),
		Package: cfg.PackageDir(),
	}

	for _, dir := range []string{ws.Source, ws.Build, ws.Package} {
		if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
		}
	}

	return ws, nil
}

// Removes the workspace tree.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	return nil
}
