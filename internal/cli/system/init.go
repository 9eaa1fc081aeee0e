package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/planner/internal/cli"
	"github.com/julianstephens/planner/internal/storage"
	"github.com/julianstephens/planner/internal/storage/backend"
)

type InitCmd struct {
	Force bool `help:"Delete an existing database file before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if storage.IsPostgres(ctx.Config.Database) {
			return fmt.Errorf("--force is not supported for PostgreSQL; drop the planner schema manually")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first so SQLite releases the file.
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized planner storage at: %s\n", backend.Describe(ctx.Config.Database))
	return nil
}
