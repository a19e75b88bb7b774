package ai

import (
	"context"
	"fmt"
)

// Completer is the interface that all LLM backends must implement.
type Completer interface {
	// Complete sends a system and user prompt and returns the model's text
	// reply.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider creates the appropriate backend based on config.
func NewProvider(cfg ProviderConfig) (Completer, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.APIKey, cfg.Model), nil
	case "openai":
		return NewOpenAIProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}
