package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/config"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// Compile-time interface check.
var _ Provider = (*HuggingFace)(nil)

const (
	httpTimeout = 30 * time.Second
	userAgent   = "llmchecker/1.1 (+https://github.com/hoanghai1803/llmchecker)"

	// maxBodyBytes bounds the listing response we are willing to decode.
	maxBodyBytes = 16 << 20
)

// HuggingFace lists the newest models from the Hugging Face Hub API.
type HuggingFace struct {
	baseURL string
	limit   int
	task    string
	token   string
	client  *http.Client
}

// NewHuggingFace creates a HuggingFace provider with a 30-second timeout HTTP
// client that sends the llmchecker user agent.
func NewHuggingFace(cfg config.HuggingFaceConfig) *HuggingFace {
	return &HuggingFace{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limit:   cfg.Limit,
		task:    cfg.Task,
		token:   cfg.Token,
		client: &http.Client{
			Timeout: httpTimeout,
			Transport: &userAgentTransport{
				base: http.DefaultTransport,
			},
		},
	}
}

// userAgentTransport wraps an http.RoundTripper to inject a custom User-Agent
// header on every request.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	return t.base.RoundTrip(req)
}

// hfModel is one item of the /api/models listing.
type hfModel struct {
	ID          string         `json:"id"`
	ModelID     string         `json:"modelId"`
	Tags        []string       `json:"tags"`
	Likes       int64          `json:"likes"`
	Downloads   int64          `json:"downloads"`
	Description string         `json:"description"`
	CardData    map[string]any `json:"cardData"`
	CreatedAt   string         `json:"createdAt"`
	PipelineTag string         `json:"pipeline_tag"`
}

// Name implements Provider.
func (h *HuggingFace) Name() string {
	return "Hugging Face"
}

// ListURL returns the listing endpoint with its query: newest first, the
// configured limit and task filter, and full metadata.
func (h *HuggingFace) ListURL() string {
	q := url.Values{}
	q.Set("sort", "createdAt")
	q.Set("direction", "-1")
	q.Set("limit", strconv.Itoa(h.limit))
	if h.task != "" {
		q.Set("filter", h.task)
	}
	q.Set("full", "true")
	return h.baseURL + "/api/models?" + q.Encode()
}

// Discover fetches the listing. Transport failures, non-200 responses and
// malformed payloads are returned as errors.
func (h *HuggingFace) Discover(ctx context.Context) ([]models.Candidate, error) {
	listURL := h.ListURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", listURL, err)
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", listURL, err)
	}
	defer resp.Body.Close()

	slog.Info("hugging face request",
		"url", listURL,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HF API error: %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var listing []hfModel
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parsing model listing: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(listing))
	for _, m := range listing {
		candidates = append(candidates, m.candidate())
	}
	return candidates, nil
}

// candidate maps a listing item, preferring the top-level description over
// the model card's.
func (m hfModel) candidate() models.Candidate {
	id := m.ModelID
	if id == "" {
		id = m.ID
	}

	desc := m.Description
	if desc == "" {
		if v, ok := m.CardData["description"].(string); ok {
			desc = v
		}
	}

	return models.Candidate{
		ModelID:     id,
		Tags:        m.Tags,
		Likes:       m.Likes,
		Downloads:   m.Downloads,
		Description: desc,
		CreatedAt:   m.CreatedAt,
		PipelineTag: m.PipelineTag,
	}
}
