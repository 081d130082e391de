package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a provider from configuration. An empty provider
// name disables the backend and returns (nil, nil).
func NewProvider(config Config) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch strings.ToLower(config.Provider) {
	case "openai":
		p, err = NewOpenAIProvider(config)
	case "anthropic", "claude":
		p, err = NewAnthropicProvider(config)
	case "ollama":
		p, err = NewOllamaProvider(config)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}

	if err != nil {
		return nil, err
	}
	return p, nil
}
