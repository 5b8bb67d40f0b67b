package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sqlsage/sqlsage/internal/config"
)

// MockService implements the Service interface for testing
type MockService struct {
	completeFunc   func(ctx context.Context, req CompletionRequest) (string, error)
	shouldFail     bool
	failFirstCalls int
	callCount      int
}

func (m *MockService) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.callCount++
	if m.shouldFail || (m.failFirstCalls > 0 && m.callCount <= m.failFirstCalls) {
		return "", errors.New("mock service error")
	}

	if m.completeFunc != nil {
		return m.completeFunc(ctx, req)
	}

	return "SELECT 1", nil
}

func TestManager_CompleteSuccess(t *testing.T) {
	mock := &MockService{}
	manager := NewManager(mock, config.LLMConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	})

	got, err := manager.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got != "SELECT 1" {
		t.Errorf("Complete() = %q, want SELECT 1", got)
	}

	if mock.callCount != 1 {
		t.Errorf("Expected 1 call on success, got %d", mock.callCount)
	}
}

func TestManager_CompleteRetriesOnFailure(t *testing.T) {
	mock := &MockService{failFirstCalls: 1}
	manager := NewManager(mock, config.LLMConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	})

	got, err := manager.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got != "SELECT 1" {
		t.Errorf("Complete() = %q, want SELECT 1", got)
	}

	if mock.callCount != 2 {
		t.Errorf("Expected 2 calls with one retry, got %d", mock.callCount)
	}
}

func TestManager_CompleteGivesUpAfterRetries(t *testing.T) {
	mock := &MockService{shouldFail: true}
	manager := NewManager(mock, config.LLMConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
	})

	_, err := manager.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error when all attempts fail")
	}

	if mock.callCount != 2 {
		t.Errorf("Expected 2 calls before giving up, got %d", mock.callCount)
	}

	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("Expected attempt count in error, got %v", err)
	}
}

func TestManager_CompleteNoRetryAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mock := &MockService{}
	mock.completeFunc = func(context.Context, CompletionRequest) (string, error) {
		cancel()
		return "", errors.New("connection dropped")
	}

	manager := NewManager(mock, config.LLMConfig{
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	_, err := manager.Complete(ctx, CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error after cancellation")
	}

	if mock.callCount != 1 {
		t.Errorf("Expected no retry after cancellation, got %d calls", mock.callCount)
	}
}

func TestManager_CompleteAppliesPerAttemptTimeout(t *testing.T) {
	deadlines := 0

	mock := &MockService{}
	mock.completeFunc = func(ctx context.Context, _ CompletionRequest) (string, error) {
		if _, ok := ctx.Deadline(); ok {
			deadlines++
		}

		<-ctx.Done()

		return "", ctx.Err()
	}

	manager := NewManager(mock, config.LLMConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		Timeout:       10 * time.Millisecond,
	})

	_, err := manager.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error when every attempt times out")
	}

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}

	// A timed-out attempt only cancels its own deadline, so the retry still runs
	if mock.callCount != 2 {
		t.Errorf("Expected timed-out attempt to be retried, got %d calls", mock.callCount)
	}

	if deadlines != 2 {
		t.Errorf("Expected a deadline on each attempt, got %d", deadlines)
	}
}

func TestNewServiceFromConfig(t *testing.T) {
	service, err := NewServiceFromConfig(config.LLMConfig{
		Provider: ProviderOllama,
		Model:    "llama3",
	})
	if err != nil {
		t.Fatalf("NewServiceFromConfig() error = %v", err)
	}

	if _, ok := service.(*Manager); !ok {
		t.Errorf("Expected service to be wrapped in a Manager, got %T", service)
	}
}

func TestNewServiceFromConfig_InvalidProvider(t *testing.T) {
	_, err := NewServiceFromConfig(config.LLMConfig{
		Provider: "unsupported",
		Model:    "test-model",
	})
	if err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
}
