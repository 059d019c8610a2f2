package llm

import (
	"context"
	"fmt"

	"github.com/maestrobot/gh-maestro/internal/config"
)

// Provider defines the interface for LLM chat completion
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
	Close() error
}

// FromConfig builds a provider from configuration. A nil provider with a nil
// error means AI analysis is not configured, which is the normal disabled
// path rather than a failure.
func FromConfig(cfg *config.LLMConfig) (Provider, error) {
	if cfg.Provider == "" || cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model)
	case "gemini":
		return NewGeminiProvider(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
