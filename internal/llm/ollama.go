package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OllamaProvider generates text through a local self-hosted Ollama server.
type OllamaProvider struct {
	BaseURL string
	Model   string
	client  *http.Client
}

// NewOllamaProvider creates an Ollama-backed provider.
func NewOllamaProvider(baseURL, model string) *OllamaProvider {
	return &OllamaProvider{
		BaseURL: baseURL,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// Name identifies the backend.
func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends a non-streaming generate request to the local server.
func (p *OllamaProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if p.BaseURL == "" {
		return "", ErrNotConfigured
	}

	url := fmt.Sprintf("%s/api/generate", p.BaseURL)

	options := map[string]any{}
	if req.Temperature > 0 {
		options["temperature"] = req.Temperature
	}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	payload := ollamaRequest{
		Model:   p.Model,
		Prompt:  req.Prompt,
		System:  req.SystemPrompt,
		Stream:  false,
		Options: options,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))}
	}

	var genResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &ProviderError{Provider: p.Name(), Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return genResp.Response, nil
}
