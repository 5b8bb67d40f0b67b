package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/errors"
)

// seeder is the slice of the store the seed command needs
type seeder interface {
	Seed(ctx context.Context, force bool) error
}

func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:        "seed",
		Usage:       "Create and populate the sample business database",
		Description: `Create the sample business tables (customers, products, orders, and monthly financials) and fill them with generated data, including the messy names and data quality issues the system is demonstrated against.`,
		Flags: append(configFlags(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Drop and recreate the sample tables if they already exist",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runSeed(withConfig(ctx, cfg), cmd.Bool("force"))
		},
	}
}

func runSeed(ctx context.Context, force bool) error {
	return runSeedWithStorage(ctx, nil, force)
}

func runSeedWithStorage(ctx context.Context, store seeder, force bool) error {
	// Initialize storage if not provided (for testing)
	if store == nil {
		cfg := getConfigFromContext(ctx)
		if cfg == nil {
			return errors.New(errors.ErrTypeConfig, "configuration not available")
		}

		realStore, err := initializeStorage(cfg)
		if err != nil {
			return err
		}

		defer realStore.Close()

		store = realStore
	}

	if err := store.Seed(ctx, force); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	fmt.Printf("Sample business data created.\n")
	fmt.Printf("\nRun 'sqlsage schema' to inspect the tables or 'sqlsage serve' to start asking questions.\n")

	return nil
}
