// Package llm abstracts text-generation backends behind a single Provider
// contract. Backends are selected once at startup; every call is a fresh
// network round-trip with no caching and no retries.
package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_provider.go -package=mocks vidvault/internal/llm Provider

import (
	"context"
	"errors"
	"fmt"

	"vidvault/internal/config"
)

// ErrNotConfigured is returned when the selected provider lacks required
// credentials or connection info.
var ErrNotConfigured = errors.New("completion provider not configured")

// ProviderError wraps a failure from the underlying backend (network, quota,
// malformed response). It is surfaced to the caller, never retried internally.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// GenerateRequest holds the inputs for one text generation call.
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	// Temperature controls output randomness. Zero means backend default.
	Temperature float32
	// MaxTokens caps the generated length. Zero means no explicit cap.
	MaxTokens int
}

// Provider generates text from a prompt. All backends return plain text
// through this one contract so callers never change when the backend does.
type Provider interface {
	// Name identifies the backend ("openai", "gemini", "ollama").
	Name() string
	// Generate produces text for the request. It returns ErrNotConfigured when
	// the backend has no credentials, or a *ProviderError when the call fails.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// New selects and constructs the provider named in the configuration.
func New(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "ollama":
		return NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
