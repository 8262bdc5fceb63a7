package build

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quarrypkg/quarry/internal/recipe"
	"github.com/quarrypkg/quarry/internal/shell"
)

// Hook functions a recipe may declare, in pipeline order.
const (
	hookSources = "handle_sources"
	hookBuild   = "handle_build"
	hookCheck   = "handle_check"
	hookPackage = "handle_package"
)

// Runs one recipe hook to completion.
//
// A hook the recipe does not declare is a logged no-op; declaring a
// hook is what opts the recipe into that pipeline step. The hook runs
// in its stage's working directory under the fixed recipe environment,
// with the recipe sourced first so its variables and helper functions
// are in scope.
func (b *builder) runHook(ctx context.Context, name, dir string, fakeroot bool) error {
	declared, err := b.evaluator.HasFunction(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookFailed, name, err)
	}
	if !declared {
		slog.Debug("hook not declared, skipping", "hook", name)
		return nil
	}

	slog.Info("running hook", "hook", name)

	result, err := shell.Run(ctx, shell.Command{
		Script:   fmt.Sprintf("source %q\n%s\n", b.recipePath, name),
		Dir:      dir,
		Env:      recipe.Environment(b.cfg, b.desc.Name, b.desc.Version.String(), b.desc.Release),
		Fakeroot: fakeroot,
		Stream:   !b.cfg.SuppressBuildOutput,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookFailed, name, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %s exited with code %d", ErrHookFailed, name, result.ExitCode)
	}

	return nil
}
