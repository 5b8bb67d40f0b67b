package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/errors"
	"github.com/sqlsage/sqlsage/internal/types"
)

// introspector is the slice of the store the schema command needs
type introspector interface {
	Introspect(ctx context.Context, sampleRows int) (types.SchemaDescription, error)
}

func SchemaCommand() *cli.Command {
	return &cli.Command{
		Name:        "schema",
		Usage:       "Display the introspected database schema",
		Description: `Inspect the configured database and print every table with its columns and the number of sample rows collected for prompt context.`,
		Flags: append(configFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the schema as JSON",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runSchema(withConfig(ctx, cfg), cmd.Bool("json"))
		},
	}
}

func runSchema(ctx context.Context, asJSON bool) error {
	cfg := getConfigFromContext(ctx)
	if cfg == nil {
		return errors.New(errors.ErrTypeConfig, "configuration not available")
	}

	return runSchemaWithStorage(ctx, nil, cfg.Database.SampleRows, asJSON)
}

func runSchemaWithStorage(ctx context.Context, store introspector, sampleRows int, asJSON bool) error {
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

	schema, err := store.Introspect(ctx, sampleRows)
	if err != nil {
		return fmt.Errorf("failed to introspect schema: %w", err)
	}

	if asJSON {
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}

		fmt.Println(string(data))

		return nil
	}

	printSchema(schema)

	return nil
}

func printSchema(schema types.SchemaDescription) {
	fmt.Printf("Database Schema\n")
	fmt.Printf("===============\n")

	if schema.IsEmpty() {
		fmt.Printf("\nNo tables found.\n")
		return
	}

	for _, table := range schema.Tables {
		fmt.Printf("\nTable: %s\n", table.Name)

		for _, col := range table.Columns {
			fmt.Printf("  - %s (%s)\n", col.Name, col.Type)
		}

		fmt.Printf("  Sample rows: %d\n", len(table.SampleRows))
	}

	fmt.Printf("\nTotal: %d tables\n", len(schema.Tables))
}
