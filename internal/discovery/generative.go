package discovery

import (
	"context"
	"fmt"

	"github.com/hoanghai1803/llmchecker/internal/ai"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// Compile-time interface check.
var _ Provider = (*Generative)(nil)

// Generative asks an LLM for plausible recently released models. It stands
// in for the live registry when one is not reachable.
type Generative struct {
	completer ai.Completer
	backend   string
	count     int
}

// NewGenerative creates a Generative provider. backend is only used for the
// provider name.
func NewGenerative(completer ai.Completer, backend string, count int) *Generative {
	if count <= 0 {
		count = 5
	}
	return &Generative{completer: completer, backend: backend, count: count}
}

// Name implements Provider.
func (g *Generative) Name() string {
	return fmt.Sprintf("generative catalog (%s)", g.backend)
}

// Discover implements Provider. Backend and parse failures are returned as
// errors.
func (g *Generative) Discover(ctx context.Context) ([]models.Candidate, error) {
	generated, err := ai.GenerateModels(ctx, g.completer, g.count)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(generated))
	for _, m := range generated {
		if m.Name == "" {
			continue
		}
		candidates = append(candidates, shapedModel{
			Name:        m.Name,
			Provider:    m.Provider,
			Parameters:  m.Parameters,
			Description: m.Description,
			Likes:       m.Likes,
			Downloads:   m.Downloads,
			Tags:        m.Tags,
			License:     m.License,
			ReleaseDate: m.ReleaseDate,
		}.candidate())
	}
	return candidates, nil
}
