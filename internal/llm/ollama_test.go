package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("request path = %q", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream must be disabled")
		}
		if req.Model != "llama3" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Prompt != "summarize this" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		if _, ok := req.Options["num_predict"]; !ok {
			t.Error("expected num_predict option when MaxTokens is set")
		}

		_ = json.NewEncoder(w).Encode(ollamaResponse{Response: "a summary", Done: true})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	got, err := provider.Generate(context.Background(), GenerateRequest{
		Prompt:    "summarize this",
		MaxTokens: 256,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "a summary" {
		t.Errorf("Generate() = %q", got)
	}
}

func TestOllamaProvider_Generate_NoBaseURL(t *testing.T) {
	provider := NewOllamaProvider("", "llama3")
	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hello"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Generate() error = %v, want ErrNotConfigured", err)
	}
}

func TestOllamaProvider_Generate_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Generate(context.Background(), GenerateRequest{Prompt: "hello"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Generate() error = %v, want *ProviderError", err)
	}
	if provErr.Provider != "ollama" {
		t.Errorf("ProviderError.Provider = %q", provErr.Provider)
	}
}
