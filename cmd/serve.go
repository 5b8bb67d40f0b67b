package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/sqlsage/sqlsage/internal/api"
	"github.com/sqlsage/sqlsage/internal/logging"
)

func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:        "serve",
		Usage:       "Run the HTTP API server",
		Description: `Start the HTTP server exposing POST /ask, GET /schema, GET /health, and GET /metrics. The server introspects the database schema once at startup and shuts down gracefully on SIGINT or SIGTERM.`,
		Flags: append(configFlags(),
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, for example :8080",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if addr := cmd.String("addr"); addr != "" {
				cfg.HTTP.Addr = addr
			}

			return runServe(withConfig(ctx, cfg))
		},
	}
}

func runServe(ctx context.Context) error {
	cfg := getConfigFromContext(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, cleanup, err := initializePipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := api.NewHandler(api.Dependencies{Pipeline: p})

	logging.WithFields(map[string]interface{}{
		"addr":    cfg.HTTP.Addr,
		"dialect": cfg.Database.Dialect,
		"tables":  len(p.Schema().Tables),
	}).Info("Starting HTTP server")

	return api.Serve(ctx, cfg.HTTP, handler)
}
