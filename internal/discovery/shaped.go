package discovery

import (
	"strings"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

// shapedModel is a model description that already carries its license and
// parameter count, as produced by the catalog and generative providers.
type shapedModel struct {
	Name        string
	Provider    string
	Parameters  string
	Description string
	Likes       int64
	Downloads   int64
	Tags        []string
	License     string
	ReleaseDate string
}

// candidate folds the license and parameter count into the tag list so the
// normalizer can recover them the same way it does for live listings.
func (m shapedModel) candidate() models.Candidate {
	tags := make([]string, 0, len(m.Tags)+2)
	tags = append(tags, m.Tags...)

	if m.License != "" && !hasPrefixTag(tags, "license:") {
		tags = append(tags, "license:"+m.License)
	}
	if m.Parameters != "" && !containsFold(tags, m.Parameters) {
		tags = append(tags, m.Parameters)
	}

	id := m.Name
	if m.Provider != "" {
		id = m.Provider + "/" + m.Name
	}

	return models.Candidate{
		ModelID:     id,
		Tags:        tags,
		Likes:       m.Likes,
		Downloads:   m.Downloads,
		Description: m.Description,
		CreatedAt:   m.ReleaseDate,
	}
}

func hasPrefixTag(tags []string, prefix string) bool {
	for _, t := range tags {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func containsFold(tags []string, s string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, s) {
			return true
		}
	}
	return false
}
