// Package discovery provides the sources a discovery cycle can poll: the
// live Hugging Face listing, an RSS/Atom announcement feed, an AI-generated
// catalog, and a static seed catalog. All of them return raw candidates; the
// checker treats them identically.
package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/llmchecker/internal/ai"
	"github.com/hoanghai1803/llmchecker/internal/config"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// Provider is the interface that all discovery sources must implement.
type Provider interface {
	// Name is a human-readable label used in log messages.
	Name() string

	// Discover returns the newest candidates. An empty result is valid and
	// distinct from an error.
	Discover(ctx context.Context) ([]models.Candidate, error)
}

// New creates the provider selected by cfg.Discovery.Provider. The
// generative provider degrades to the static catalog when no AI API key is
// configured.
func New(cfg *config.Config) (Provider, error) {
	switch cfg.Discovery.Provider {
	case "huggingface":
		return NewHuggingFace(cfg.HuggingFace), nil
	case "feed":
		return NewFeed(cfg.Feed.URL), nil
	case "catalog":
		return NewCatalog()
	case "generative":
		if cfg.AI.APIKey == "" {
			slog.Warn("no AI API key configured, using the static model catalog")
			return NewCatalog()
		}
		completer, err := ai.NewProvider(ai.ProviderConfig{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating AI provider: %w", err)
		}
		return NewGenerative(completer, cfg.AI.Provider, cfg.AI.Count), nil
	default:
		return nil, fmt.Errorf("unsupported discovery provider: %s", cfg.Discovery.Provider)
	}
}
