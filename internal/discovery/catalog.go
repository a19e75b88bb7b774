package discovery

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/hoanghai1803/llmchecker/internal/models"
	"gopkg.in/yaml.v3"
)

// Compile-time interface check.
var _ Provider = (*Catalog)(nil)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Models []catalogEntry `yaml:"models"`
}

type catalogEntry struct {
	Name        string   `yaml:"name"`
	Provider    string   `yaml:"provider"`
	Parameters  string   `yaml:"parameters"`
	Description string   `yaml:"description"`
	Likes       int64    `yaml:"likes"`
	Downloads   int64    `yaml:"downloads"`
	Tags        []string `yaml:"tags"`
	License     string   `yaml:"license"`
	ReleaseDate string   `yaml:"release_date"`
}

// Catalog serves a fixed list of well-known models.
type Catalog struct {
	candidates []models.Candidate
}

// NewCatalog loads the embedded seed catalog.
func NewCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog builds a Catalog from YAML data.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing model catalog: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(file.Models))
	for _, e := range file.Models {
		candidates = append(candidates, shapedModel{
			Name:        e.Name,
			Provider:    e.Provider,
			Parameters:  e.Parameters,
			Description: e.Description,
			Likes:       e.Likes,
			Downloads:   e.Downloads,
			Tags:        e.Tags,
			License:     e.License,
			ReleaseDate: e.ReleaseDate,
		}.candidate())
	}
	return &Catalog{candidates: candidates}, nil
}

// Name implements Provider.
func (c *Catalog) Name() string {
	return "model catalog"
}

// Discover implements Provider. Each call returns a fresh copy.
func (c *Catalog) Discover(_ context.Context) ([]models.Candidate, error) {
	out := make([]models.Candidate, len(c.candidates))
	for i, cand := range c.candidates {
		cand.Tags = append([]string(nil), cand.Tags...)
		out[i] = cand
	}
	return out, nil
}
