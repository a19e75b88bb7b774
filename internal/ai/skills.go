package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const discoverSystemPrompt = `You are a backend crawler service for Hugging Face. Return structured data about the newest available models only. Return ONLY valid JSON: an object with a "models" array. Each element has "name", "provider", "parameters" (e.g. "7B"), "description", "likes", "downloads", "tags" (array of strings), "license" (one of "apache-2.0", "mit", "llama3.2", "llama3.1", "other"), "vramSize" (e.g. "16GB") and "releaseDate" (YYYY-MM-DD).`

const discoverUserPromptTmpl = `Generate a JSON list of %d newly launched trending open-weight LLMs from providers like Meta, Mistral, Google, Qwen, DeepSeek. Only include models released within the last year. Focus on the latest versions and include realistic stats like likes, downloads, license type, estimated VRAM for inference and the release date.`

// DiscoverModelsPrompt builds the system and user prompts asking for count
// recently released models.
func DiscoverModelsPrompt(count int) (systemPrompt string, userPrompt string) {
	return discoverSystemPrompt, fmt.Sprintf(discoverUserPromptTmpl, count)
}

// GenerateModels asks the completer for count recently released models and
// parses the JSON reply.
func GenerateModels(ctx context.Context, c Completer, count int) ([]GeneratedModel, error) {
	systemPrompt, userPrompt := DiscoverModelsPrompt(count)

	text, err := c.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generating models: %w", err)
	}

	return ParseGeneratedModels(text)
}

// ParseGeneratedModels decodes a model reply. Both the {"models": [...]}
// envelope and a bare array are accepted.
func ParseGeneratedModels(text string) ([]GeneratedModel, error) {
	cleaned := extractJSON(text)
	if cleaned == "" {
		return nil, fmt.Errorf("parsing generated models: empty response")
	}

	if strings.HasPrefix(cleaned, "[") {
		var list []GeneratedModel
		if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
			return nil, fmt.Errorf("parsing generated models: %w", err)
		}
		return list, nil
	}

	var env generatedList
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("parsing generated models: %w", err)
	}
	return env.Models, nil
}

// extractJSON strips markdown code fences from a string that may contain
// JSON wrapped in ```json ... ``` or ``` ... ``` blocks. This handles the
// common case where LLMs return JSON inside code fences.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try ```json ... ``` first.
	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	// Try plain ``` ... ```.
	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}
