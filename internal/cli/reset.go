package cli

import (
	"context"

	"github.com/quarrypkg/quarry/internal/config"
	"github.com/quarrypkg/quarry/internal/repository"
)

// Represents the 'quarry reset' command.
type ResetCmd struct{}

// Executes the reset command.
func (c *ResetCmd) Run(ctx context.Context) error {
	cfg, err := config.Load(RootCmd.Config)
	if err != nil {
		return err
	}

	return repository.New(cfg).Reset(ctx)
}
