package cmd

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/config"
	"github.com/sqlsage/sqlsage/internal/logging"
)

type contextKey string

const configContextKey contextKey = "config"

// Execute parses arguments and runs the selected command
func Execute(ctx context.Context, args []string, version string) error {
	return RootCommand(version).Run(ctx, args)
}

func RootCommand(version string) *cli.Command {
	return &cli.Command{
		Name:        "sqlsage",
		Usage:       "Ask plain-language business questions of a relational database",
		Description: `Translate natural language questions into SQL, run them against the configured database, and summarize the results as business insights.`,
		Version:     version,
		Commands: []*cli.Command{
			ServeCommand(),
			AskCommand(),
			SchemaCommand(),
			SeedCommand(),
			ConfigCommand(),
		},
	}
}

// configFlags are shared by every subcommand so connection settings can be
// overridden without touching the environment
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "Path to the database file (duckdb and sqlite dialects)",
		},
		&cli.StringFlag{
			Name:  "dialect",
			Usage: "Database dialect: duckdb, sqlite, or postgres",
		},
		&cli.StringFlag{
			Name:  "dsn",
			Usage: "Connection string (postgres dialect)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, or error",
		},
	}
}

// loadConfig resolves configuration from the environment with command-line
// flag overrides applied, then initializes the global logger
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	overrides := map[string]interface{}{
		"db":        cmd.String("db"),
		"dialect":   cmd.String("dialect"),
		"dsn":       cmd.String("dsn"),
		"log-level": cmd.String("log-level"),
	}

	cfg, err := config.LoadConfigWithOverrides(overrides)
	if err != nil {
		return nil, err
	}

	if err := logging.InitializeLogger(cfg.Logging); err != nil {
		logging.SetupFallbackLogger()
	}

	return cfg, nil
}

// withConfig stores the resolved configuration in the context for the run
// helpers
func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func getConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configContextKey).(*config.Config)
	if !ok {
		return nil
	}

	return cfg
}
