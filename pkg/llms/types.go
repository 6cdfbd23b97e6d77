// Package llms provides the single-turn chat completion providers the
// experiment runner uses to execute a prompt per dataset row.
package llms

import (
	"context"
	"fmt"
)

// CompletionRequest is one single-turn completion: an optional system
// message plus one user message.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
}

// Provider executes single-turn completions against one endpoint.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
	Close() error
}

// ProviderConfig configures a completion provider.
type ProviderConfig struct {
	// Type selects the provider ("openai" or "anthropic").
	Type string
	// Endpoint is the API base URL. Empty uses the provider default.
	Endpoint string
	Model    string
	APIKey   string
	// Timeout is the per-request timeout in seconds.
	Timeout int
	// MaxRetries bounds HTTP retries.
	MaxRetries int
	// MaxTokens caps the completion length.
	MaxTokens int
}

func (c *ProviderConfig) withDefaults() ProviderConfig {
	out := *c
	if out.Type == "" {
		out.Type = "openai"
	}
	if out.Timeout <= 0 {
		out.Timeout = 60
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = 4096
	}
	return out
}

// New builds a provider from its configuration.
func New(cfg ProviderConfig) (Provider, error) {
	resolved := cfg.withDefaults()
	if resolved.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if resolved.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch resolved.Type {
	case "openai":
		return newOpenAIProvider(resolved), nil
	case "anthropic":
		return newAnthropicProvider(resolved), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", resolved.Type)
	}
}
