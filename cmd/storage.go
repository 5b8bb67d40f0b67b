package cmd

import (
	"context"
	"fmt"

	"github.com/sqlsage/sqlsage/internal/config"
	"github.com/sqlsage/sqlsage/internal/llm"
	"github.com/sqlsage/sqlsage/internal/pipeline"
	"github.com/sqlsage/sqlsage/internal/storage"
)

// initializeStorage opens the relational store described by the configuration
func initializeStorage(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return store, nil
}

// initializePipeline wires the store and the completion service into a
// question pipeline. The returned cleanup function closes the store.
func initializePipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, func() error, error) {
	store, err := initializeStorage(cfg)
	if err != nil {
		return nil, nil, err
	}

	service, err := llm.NewServiceFromConfig(cfg.LLM)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create completion service: %w", err)
	}

	p := pipeline.New(ctx, store, service, cfg.Database.SampleRows)

	return p, store.Close, nil
}
