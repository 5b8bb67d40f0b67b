package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sqlsage/sqlsage/internal/config"
)

// Manager wraps a Service with per-attempt deadlines and retry on failure
type Manager struct {
	service       Service
	retryAttempts int
	retryDelay    time.Duration
	timeout       time.Duration
}

// NewManager creates a manager around the given service using the retry
// settings from the configuration
func NewManager(service Service, cfg config.LLMConfig) *Manager {
	return &Manager{
		service:       service,
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
		timeout:       cfg.Timeout,
	}
}

// NewServiceFromConfig builds the provider client and wraps it in a Manager
func NewServiceFromConfig(cfg config.LLMConfig) (Service, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return NewManager(client, cfg), nil
}

// Complete invokes the wrapped service with a per-attempt timeout, retrying
// failed attempts after the retry delay
func (m *Manager) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= m.retryAttempts; attempt++ {
		if attempt > 0 {
			// Wait before retry
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(m.retryDelay):
			}
		}

		response, err := m.completeOnce(ctx, req)
		if err == nil {
			return response, nil
		}

		lastErr = err

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			break
		}
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", m.retryAttempts+1, lastErr)
}

func (m *Manager) completeOnce(ctx context.Context, req CompletionRequest) (string, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	return m.service.Complete(ctx, req)
}
