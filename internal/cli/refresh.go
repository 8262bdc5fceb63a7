package cli

import (
	"context"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/repository"
)

// Represents the 'quarry refresh' command.
type RefreshCmd struct{}

// Executes the refresh command.
//
// Clones absent repositories and fast-forwards present ones. A cache
// clone with local drift aborts the refresh; 'quarry reset' discards
// the drifted clone.
func (c *RefreshCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	return repository.New(cfg).Refresh(ctx)
}
