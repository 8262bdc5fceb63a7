package cli

import (
	"context"
	"fmt"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/repository"
)

// Represents the 'quarry search' command.
type SearchCmd struct {
	Atom string `arg:"" help:"Package atom: a name or name/version."`
}

// Executes the search command.
//
// Prints the recipe path the atom resolves to, applying the same
// version selection a build would.
func (c *SearchCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	recipePath, err := repository.New(cfg).FindRecipe(c.Atom)
	if err != nil {
		return err
	}
	if recipePath == "" {
		return fmt.Errorf("%w: %q", ErrNoRecipe, c.Atom)
	}

	fmt.Println(recipePath)
	return nil
}
