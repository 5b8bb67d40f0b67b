package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/errors"
)

func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "config",
		Usage:       "Display the active configuration",
		Description: `Show the resolved configuration after applying environment variables and command-line flag overrides. Secrets are masked.`,
		Flags: append(configFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the configuration as JSON",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runConfig(withConfig(ctx, cfg), cmd.Bool("json"))
		},
	}
}

func runConfig(ctx context.Context, asJSON bool) error {
	cfg := getConfigFromContext(ctx)
	if cfg == nil {
		return errors.New(errors.ErrTypeConfig, "configuration not available")
	}

	display := *cfg
	display.LLM.APIKey = maskSecret(cfg.LLM.APIKey)

	if asJSON {
		data, err := json.MarshalIndent(display, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}

		fmt.Println(string(data))

		return nil
	}

	fmt.Println("====================")
	fmt.Println("Active Configuration:")

	fmt.Println("\nDatabase:")
	fmt.Printf("  Dialect: %s\n", display.Database.Dialect)

	if display.Database.DSN != "" {
		fmt.Printf("  DSN: %s\n", display.Database.DSN)
	} else {
		fmt.Printf("  Path: %s\n", display.Database.Path)
	}

	fmt.Printf("  Max Connections: %d\n", display.Database.MaxConnections)
	fmt.Printf("  Query Timeout: %s\n", display.Database.QueryTimeout)
	fmt.Printf("  Sample Rows: %d\n", display.Database.SampleRows)

	fmt.Println("\nLLM:")
	fmt.Printf("  Provider: %s\n", display.LLM.Provider)
	fmt.Printf("  Model: %s\n", display.LLM.Model)

	if display.LLM.BaseURL != "" {
		fmt.Printf("  Base URL: %s\n", display.LLM.BaseURL)
	}

	fmt.Printf("  API Key: %s\n", display.LLM.APIKey)
	fmt.Printf("  Timeout: %s\n", display.LLM.Timeout)
	fmt.Printf("  Retry Attempts: %d\n", display.LLM.RetryAttempts)
	fmt.Printf("  Retry Delay: %s\n", display.LLM.RetryDelay)

	fmt.Println("\nHTTP:")
	fmt.Printf("  Addr: %s\n", display.HTTP.Addr)
	fmt.Printf("  Read Timeout: %s\n", display.HTTP.ReadTimeout)
	fmt.Printf("  Write Timeout: %s\n", display.HTTP.WriteTimeout)
	fmt.Printf("  Shutdown Timeout: %s\n", display.HTTP.ShutdownTimeout)

	fmt.Println("\nLogging:")
	fmt.Printf("  Level: %s\n", display.Logging.Level)
	fmt.Printf("  Format: %s\n", display.Logging.Format)
	fmt.Printf("  Output: %s\n", display.Logging.Output)

	if display.Logging.Output == "file" {
		fmt.Printf("  File: %s\n", display.Logging.File)
	}

	return nil
}

// maskSecret hides all but the last four characters of a secret
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}

	if len(secret) <= 4 {
		return "****"
	}

	return "****" + secret[len(secret)-4:]
}
