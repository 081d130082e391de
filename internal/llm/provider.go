package llm

import (
	"context"

	"github.com/ppiankov/factlens/internal/model"
)

// Provider is a reasoning backend. Complete is a black-box call: it either
// returns text or a *BackendError. Retries, fallbacks and per-component
// timeouts belong to the caller.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one prompt and returns the raw completion text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is a single prompt
type CompletionRequest struct {
	// System sets the assistant role
	System string

	// Prompt is the user message
	Prompt string

	// JSON asks the backend to answer with a JSON object where supported
	JSON bool

	// Model overrides the configured model
	Model string

	// MaxTokens overrides the configured response length
	MaxTokens int
}

// CompletionResponse is the backend's answer
type CompletionResponse struct {
	// Text is the completion, trimmed of surrounding whitespace
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int

	// Cached is set when the response was replayed from the completion cache
	Cached bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout is the transport-level ceiling in seconds. Components apply
	// their own, shorter deadlines through the context.
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for sampling
	Temperature float64

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 400,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(c model.LLMConfig) Config {
	return Config{
		Provider:    c.Provider,
		Model:       c.Model,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
		Timeout:     c.Timeout,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		HTTPProxy:   c.HTTPProxy,
		HTTPSProxy:  c.HTTPSProxy,
	}
}

func (c Config) model(req CompletionRequest, fallback string) string {
	if req.Model != "" {
		return req.Model
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

func (c Config) maxTokens(req CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 400
}
