package llms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnthropicComplete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected /v1/messages, got %s", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "sk-ant-test" {
			t.Errorf("x-api-key = %q, want sk-ant-test", key)
		}
		if v := r.Header.Get("anthropic-version"); v != anthropicAPIVersion {
			t.Errorf("anthropic-version = %q, want %q", v, anthropicAPIVersion)
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.System != "be brief" {
			t.Errorf("system = %q, want %q", req.System, "be brief")
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if req.MaxTokens <= 0 {
			t.Errorf("max_tokens = %d, want > 0", req.MaxTokens)
		}

		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContent{
				{Type: "text", Text: "The answer "},
				{Type: "tool_use"},
				{Type: "text", Text: "is 4."},
			},
			Usage: anthropicUsage{InputTokens: 12, OutputTokens: 5},
		})
	}))
	defer server.Close()

	provider, err := New(ProviderConfig{
		Type:     "anthropic",
		Model:    "claude-sonnet-4-20250514",
		APIKey:   "sk-ant-test",
		Endpoint: server.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("Name() = %v, want anthropic", provider.Name())
	}

	text, err := provider.Complete(context.Background(), CompletionRequest{
		System: "be brief",
		Prompt: "What is 2+2?",
	})
	if err != nil {
		t.Fatalf("Complete() error = %v, want nil", err)
	}
	if text != "The answer is 4." {
		t.Errorf("Complete() = %q, want text blocks concatenated", text)
	}
}

func TestAnthropicComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(anthropicResponse{
			Error: &anthropicError{Type: "invalid_request_error", Message: "max_tokens: required"},
		})
	}))
	defer server.Close()

	provider, _ := New(ProviderConfig{Type: "anthropic", Model: "m", APIKey: "k", Endpoint: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Complete() error = nil, want API error")
	}
	if !strings.Contains(err.Error(), "max_tokens: required") {
		t.Errorf("error = %v, want API error message surfaced", err)
	}
}

func TestAnthropicComplete_HTTPErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider, _ := New(ProviderConfig{Type: "anthropic", Model: "m", APIKey: "k", Endpoint: server.URL})
	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "hi"})
	if err == nil {
		t.Fatal("Complete() error = nil, want HTTP error")
	}
	if !strings.Contains(err.Error(), "HTTP 403") {
		t.Errorf("error = %v, want status surfaced", err)
	}
}
