package ai

// ProviderConfig holds the configuration needed to create an AI backend.
type ProviderConfig struct {
	Provider string // "anthropic" | "openai"
	APIKey   string
	Model    string
}

// GeneratedModel is one entry of the JSON list the model is asked to return.
type GeneratedModel struct {
	Name        string   `json:"name"`
	Provider    string   `json:"provider"`
	Parameters  string   `json:"parameters"`
	Description string   `json:"description"`
	Likes       int64    `json:"likes"`
	Downloads   int64    `json:"downloads"`
	Tags        []string `json:"tags"`
	License     string   `json:"license"`
	VRAMSize    string   `json:"vramSize"`
	ReleaseDate string   `json:"releaseDate"`
}

// generatedList is the envelope the prompt asks for.
type generatedList struct {
	Models []GeneratedModel `json:"models"`
}
