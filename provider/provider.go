package provider

import (
	"context"
	"errors"

	"github.com/kaiwa-dev/kaiwa/config"
	openai_provider "github.com/kaiwa-dev/kaiwa/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	OpenAI Client = "openai"
	Ollama Client = "ollama"
)

// Message is a single chat message handed to the completion endpoint
type Message = openai_provider.Message

// Provider is the interface all LLM implementations must satisfy
type Provider interface {
	// Complete sends the messages and returns the model's text reply.
	Complete(ctx context.Context, messages []Message) (string, error)
	// CompleteJSON is Complete with the response constrained to a JSON object.
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
	// CreateEmbedding returns one fixed-dimension vector per input text.
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

// NewProvider creates an LLM client based on the provided configuration.
// Ollama exposes an OpenAI-compatible /v1 surface, so both types share the
// same implementation and differ only in base URL and API key handling.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch Client(cfg.Type) {
	case OpenAI, Ollama:
		return openai_provider.NewClient(openai_provider.Options{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey,
			ChatModel:      cfg.ChatModel,
			EmbeddingModel: cfg.EmbeddingModel,
			Temperature:    cfg.Temperature,
			MaxTokens:      cfg.MaxTokens,
			Timeout:        cfg.Timeout,
		}), nil
	default:
		return nil, errors.New("unsupported LLM provider")
	}
}
