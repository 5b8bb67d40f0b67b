package llm

import (
	"context"
)

// Service defines the interface for LLM text completion
type Service interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes a single completion call
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

// Provider constants for supported LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)
