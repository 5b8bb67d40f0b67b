package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/sqlsage/sqlsage/internal/config"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LLMConfig
		wantErr bool
	}{
		{
			name: "valid OpenAI config",
			cfg: config.LLMConfig{
				Provider: ProviderOpenAI,
				Model:    "gpt-4o-mini",
				APIKey:   "test-key",
			},
			wantErr: false,
		},
		{
			name: "valid Ollama config",
			cfg: config.LLMConfig{
				Provider: ProviderOllama,
				Model:    "llama3",
			},
			wantErr: false,
		},
		{
			name: "missing provider",
			cfg: config.LLMConfig{
				Model:  "gpt-4o-mini",
				APIKey: "test-key",
			},
			wantErr: true,
		},
		{
			name: "missing model",
			cfg: config.LLMConfig{
				Provider: ProviderOpenAI,
				APIKey:   "test-key",
			},
			wantErr: true,
		},
		{
			name: "missing API key for OpenAI",
			cfg: config.LLMConfig{
				Provider: ProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			wantErr: true,
		},
		{
			name: "unsupported provider",
			cfg: config.LLMConfig{
				Provider: "unsupported",
				Model:    "test-model",
				APIKey:   "test-key",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewClient() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && client == nil {
				t.Errorf("NewClient() returned nil client without error")
			}
		})
	}
}

func TestNewClient_DefaultBaseURLs(t *testing.T) {
	openai, err := NewClient(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if openai.config.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("Expected default OpenAI base URL, got %s", openai.config.BaseURL)
	}

	ollama, err := NewClient(config.LLMConfig{
		Provider: ProviderOllama,
		Model:    "llama3",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if ollama.config.BaseURL != "http://localhost:11434" {
		t.Errorf("Expected default Ollama base URL, got %s", ollama.config.BaseURL)
	}
}

func TestClient_CompleteOpenAI(t *testing.T) {
	var captured openAIRequest

	// Mock OpenAI API server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}

		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header with Bearer token")
		}

		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		response := openAIResponse{
			Choices: []openAIChoice{
				{Message: openAIMessage{Role: "assistant", Content: "SELECT COUNT(*) FROM cust_tbl"}},
			},
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "how many customers are there",
		MaxTokens:   500,
		Temperature: 0.1,
		Stop:        []string{"\n\n"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got != "SELECT COUNT(*) FROM cust_tbl" {
		t.Errorf("Complete() = %q, want SQL text", got)
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("Expected model gpt-4o-mini, got %s", captured.Model)
	}

	if captured.MaxTokens != 500 {
		t.Errorf("Expected max_tokens 500, got %d", captured.MaxTokens)
	}

	if captured.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %f", captured.Temperature)
	}

	if !reflect.DeepEqual(captured.Stop, []string{"\n\n"}) {
		t.Errorf("Expected stop sequences to be forwarded, got %v", captured.Stop)
	}

	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("Expected a single user message, got %v", captured.Messages)
	}
}

func TestClient_CompleteOpenAI_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := openAIResponse{
			Error: &openAIError{Message: "rate limit exceeded", Type: "rate_limit_error"},
		}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for API error response")
	}

	if !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Errorf("Expected error to contain API message, got %v", err)
	}
}

func TestClient_CompleteOpenAI_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, err := w.Write([]byte(`{"choices":[]}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestClient_CompleteOpenAI_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "test-key",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Expected error to contain status code, got %v", err)
	}
}

func TestClient_CompleteOllama(t *testing.T) {
	var captured ollamaRequest

	// Mock Ollama API server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}

		response := ollamaResponse{Response: "SELECT * FROM prod_master LIMIT 10", Done: true}

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOllama,
		Model:    "llama3",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	got, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "show me some products",
		MaxTokens:   500,
		Temperature: 0.1,
		Stop:        []string{"\n\n"},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if got != "SELECT * FROM prod_master LIMIT 10" {
		t.Errorf("Complete() = %q, want SQL text", got)
	}

	if captured.Stream {
		t.Error("Expected stream to be disabled")
	}

	if captured.Options.NumPredict != 500 {
		t.Errorf("Expected num_predict 500, got %d", captured.Options.NumPredict)
	}

	if captured.Options.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %f", captured.Options.Temperature)
	}

	if !reflect.DeepEqual(captured.Options.Stop, []string{"\n\n"}) {
		t.Errorf("Expected stop sequences to be forwarded, got %v", captured.Options.Stop)
	}
}

func TestClient_CompleteOllama_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if _, err := w.Write([]byte(`{"error":"model not found"}`)); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{
		Provider: ProviderOllama,
		Model:    "missing-model",
		BaseURL:  server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Complete(context.Background(), CompletionRequest{Prompt: "test"})
	if err == nil {
		t.Fatal("Expected error for Ollama error response")
	}

	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected error to contain API message, got %v", err)
	}
}
