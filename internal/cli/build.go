package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/quarrypkg/quarry/internal/build"
	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/recipe"
	"github.com/quarrypkg/quarry/internal/repository"
)

// Represents the 'quarry build' command.
type BuildCmd struct {
	Atom string `arg:"" help:"Package atom: a name, name/version, or a direct recipe path."`

	Output        string `short:"o" help:"Override the package output directory." placeholder:"DIR" type:"path"`
	Workdir       string `short:"w" help:"Override the build workspace directory." placeholder:"DIR" type:"path"`
	Keep          bool   `short:"k" help:"Keep the workspace when the build fails."`
	NoCheck       bool   `help:"Skip the package check hook."`
	DeleteWorkdir bool   `help:"Delete a pre-existing workspace instead of failing."`
}

// Executes the build command.
//
// Resolves the atom to a recipe, parses it, and runs the full build
// pipeline. Building as root is refused outright: hooks run arbitrary
// recipe code, and fakeroot already covers packaged file ownership.
func (c *BuildCmd) Run(ctx context.Context) error {
	if os.Geteuid() == 0 {
		return ErrRunAsRoot
	}

	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}
	c.apply(cfg)

	recipePath, err := repository.New(cfg).FindRecipe(c.Atom)
	if err != nil {
		return err
	}
	if recipePath == "" {
		return fmt.Errorf("%w: %q", ErrNoRecipe, c.Atom)
	}

	desc, err := recipe.Load(ctx, cfg, recipePath)
	if err != nil {
		return err
	}

	result, err := build.Run(ctx, cfg, desc, recipePath)
	if err != nil {
		return err
	}

	fmt.Println(result.Archive)
	return nil
}

// Overlays command-line flags onto the loaded configuration.
func (c *BuildCmd) apply(cfg *config.Config) {
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Workdir != "" {
		cfg.WorkspaceDir = c.Workdir
	}
	if c.Keep {
		cfg.KeepWorkspaceOnFailure = true
	}
	if c.NoCheck {
		cfg.SkipPackageCheck = true
	}
	if c.DeleteWorkdir {
		cfg.DeleteExistingWorkspace = true
	}
}
