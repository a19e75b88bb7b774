package models

import "time"

// ModelRecord is the canonical form of a discovered model. ID is always
// Provider + "/" + Name.
type ModelRecord struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Parameters  string    `json:"parameters"`
	Description string    `json:"description"`
	Likes       int64     `json:"likes"`
	Downloads   int64     `json:"downloads"`
	Tags        []string  `json:"tags"`
	License     string    `json:"license"`
	VRAMSize    string    `json:"vramSize"`
	ReleaseDate string    `json:"releaseDate"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Candidate is a raw record returned by a discovery provider before
// normalization. Providers that already know the license or parameter count
// fold them into Tags ("license:mit", "7B").
type Candidate struct {
	ModelID     string   `json:"modelId"`
	Tags        []string `json:"tags"`
	Likes       int64    `json:"likes"`
	Downloads   int64    `json:"downloads"`
	Description string   `json:"description,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	PipelineTag string   `json:"pipeline_tag,omitempty"`
}
