package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quarrypkg/quarry/internal/artifact"
	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/paths"
	"github.com/quarrypkg/quarry/internal/recipe"
)

// Returned after a successful build.
type Result struct {
	Archive     string // Path of the finished package archive.
	Fingerprint string // Build fingerprint written into the package.
}

// Carries the state of one in-flight build through its stages.
type builder struct {
	cfg        *config.Config
	desc       *recipe.Description
	recipePath string
	workspace  *Workspace
	evaluator  recipe.Evaluator
}

// One pipeline stage with its reporting name.
type stage struct {
	name string
	run  func(context.Context) error
}

// Executes the full packaging pipeline for one parsed recipe.
//
// On failure the workspace is removed unless the configuration asks to
// keep it for inspection. On success the workspace is always removed
// and the finished archive is left in the output directory.
func Run(ctx context.Context, cfg *config.Config, desc *recipe.Description, recipePath string) (*Result, error) {
	slog.Info("building package",
		"name", desc.Name,
		"version", desc.Version.String(),
		"release", desc.Release,
		"architecture", cfg.TargetArchitecture,
	)

	ws, err := newWorkspace(cfg)
	if err != nil {
		return nil, err
	}

	ev, err := recipe.NewEvaluator(recipePath,
		recipe.Environment(cfg, desc.Name, desc.Version.String(), desc.Release))
	if err != nil {
		return nil, err
	}

	b := &builder{
		cfg:        cfg,
		desc:       desc,
		recipePath: recipePath,
		workspace:  ws,
		evaluator:  ev,
	}

	result, err := b.runStages(ctx)
	b.settleWorkspace(err)

	return result, err
}

// Runs the pipeline stages in order, stopping at the first failure.
func (b *builder) runStages(ctx context.Context) (*Result, error) {
	var result *Result

	stages := []stage{
		{"sources", b.stageSources},
		{"build", func(ctx context.Context) error {
			return b.runHook(ctx, hookBuild, b.workspace.Build, false)
		}},
		{"check", b.stageCheck},
		{"package", func(ctx context.Context) error {
			return b.runHook(ctx, hookPackage, b.workspace.Build, true)
		}},
		{"archive", func(ctx context.Context) error {
			r, err := b.finalize(ctx)
			result = r
			return err
		}},
	}

	for _, s := range stages {
		slog.Debug("entering stage", "stage", s.name)
		if err := s.run(ctx); err != nil {
			return nil, fmt.Errorf("stage %s: %w", s.name, err)
		}
	}

	return result, nil
}

// Runs the check hook unless checks are disabled.
func (b *builder) stageCheck(ctx context.Context) error {
	if b.cfg.SkipPackageCheck {
		slog.Warn("package check disabled, skipping")
		return nil
	}
	return b.runHook(ctx, hookCheck, b.workspace.Build, false)
}

// Finalizes the populated package tree into an archive.
//
// The fingerprint and metadata are written first, then the manifest,
// so the manifest never has to describe the reserved files it excludes
// anyway. The archive lands in the output directory under the
// canonical name-version-release filename.
func (b *builder) finalize(_ context.Context) (*Result, error) {
	script, err := os.ReadFile(b.recipePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}
	fingerprint := artifact.Fingerprint(script, b.cfg.TargetArchitecture)

	if err := artifact.WriteFingerprint(b.workspace.Package, fingerprint); err != nil {
		return nil, err
	}
	if err := artifact.WriteMetadata(b.workspace.Package, b.desc); err != nil {
		return nil, err
	}
	if err := artifact.WriteManifest(b.workspace.Package); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(b.cfg.OutputDir, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileSystemOperation, err)
	}

	archiveName := fmt.Sprintf("%s-%s-%s%s",
		b.desc.Name, b.desc.Version.String(), b.desc.Release, b.cfg.PackageSuffix)
	archivePath := filepath.Join(b.cfg.OutputDir, archiveName)

	if err := artifact.Compress(b.workspace.Package, archivePath); err != nil {
		return nil, err
	}

	slog.Info("package built", "archive", archivePath, "fingerprint", fingerprint)

	return &Result{Archive: archivePath, Fingerprint: fingerprint}, nil
}

// Disposes of the workspace according to the build outcome.
func (b *builder) settleWorkspace(buildErr error) {
	if buildErr != nil && b.cfg.KeepWorkspaceOnFailure {
		slog.Info("keeping workspace for inspection", "path", b.workspace.Root)
		return
	}

	if err := b.workspace.Remove(); err != nil {
		slog.Warn("failed to remove workspace", "path", b.workspace.Root, "error", err)
	}
}
