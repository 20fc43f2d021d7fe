// Package ai wraps the language-model SDKs behind a small Provider interface.
// The conversation pipeline only needs single-shot text completion; streaming
// and tool use are out of scope for this service.
package ai

import (
	"context"
	"fmt"

	"github.com/convive/convive/internal/config"
)

// Message is one turn of conversation context sent to the model.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Request is a completion request to a provider.
type Request struct {
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
	Model     string    `json:"model,omitempty"` // override of the provider default
}

// Provider is an AI completion provider.
type Provider interface {
	// ID returns the provider identifier (e.g., "anthropic", "openai")
	ID() string

	// Complete sends the request and returns the full response text.
	Complete(ctx context.Context, req *Request) (string, error)
}

// ProviderError represents an error returned by a provider API.
type ProviderError struct {
	Provider string `json:"provider"`
	Message  string `json:"message"`
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

const defaultMaxTokens = 1024

// NewFromConfig builds the configured provider.
func NewFromConfig(c config.Config) (Provider, error) {
	switch c.AI.Provider {
	case "anthropic", "":
		if c.AI.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic provider selected but no API key configured")
		}
		return NewAnthropicProvider(c.AI.AnthropicAPIKey, c.AI.AnthropicModel), nil
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured")
		}
		return NewOpenAIProvider(c.AI.OpenAIAPIKey, c.AI.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", c.AI.Provider)
	}
}
