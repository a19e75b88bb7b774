package checker

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

const (
	// UnknownParams is the sentinel for an unresolvable parameter count or
	// VRAM estimate.
	UnknownParams = "Unknown"

	// DefaultLicense is used when no "license:" tag is present.
	DefaultLicense = "other"

	// MoEVRAM is the bucket for every mixture-of-experts model ("8x7B").
	MoEVRAM = "High (>48GB)"

	licensePrefix = "license:"
	dateLayout    = "2006-01-02"
)

var (
	// Matches 7b, 7.2B, 70b, 8x7b.
	paramPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?(?:x\d+(?:\.\d+)?)?b`)

	leadingNumber = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// Normalize converts a raw candidate into a canonical ModelRecord. It never
// fails: fields that cannot be resolved degrade to sentinel values.
func Normalize(c models.Candidate, now time.Time) models.ModelRecord {
	provider, name := splitModelID(c.ModelID)
	tags := slices.Clone(c.Tags)
	if tags == nil {
		tags = []string{}
	}

	params := ExtractParams(name, tags)

	desc := strings.TrimSpace(c.Description)
	if desc == "" {
		task := c.PipelineTag
		if task == "" {
			task = "text-generation"
		}
		desc = fmt.Sprintf("Auto-discovered model. Task: %s.", task)
	}

	return models.ModelRecord{
		ID:          provider + "/" + name,
		Name:        name,
		Provider:    provider,
		Parameters:  params,
		Description: desc,
		Likes:       max(c.Likes, 0),
		Downloads:   max(c.Downloads, 0),
		Tags:        tags,
		License:     ExtractLicense(tags),
		VRAMSize:    EstimateVRAM(params),
		ReleaseDate: releaseDate(c.CreatedAt, now),
		LastUpdated: now,
	}
}

// splitModelID splits "provider/name" on the first slash. A missing provider
// becomes "Unknown"; a missing name falls back to the whole id.
func splitModelID(id string) (provider, name string) {
	id = strings.TrimSpace(id)
	provider, name, found := strings.Cut(id, "/")
	if !found {
		return UnknownParams, id
	}
	if provider == "" {
		provider = UnknownParams
	}
	if name == "" {
		name = id
	}
	return provider, name
}

// ExtractParams finds a parameter count such as "7B" or "8X7B" in the model
// name, falling back to the tags in order. The first match wins and is
// upper-cased. It returns "Unknown" when nothing matches.
func ExtractParams(name string, tags []string) string {
	if m := paramPattern.FindString(name); m != "" {
		return strings.ToUpper(m)
	}
	for _, tag := range tags {
		if m := paramPattern.FindString(tag); m != "" {
			return strings.ToUpper(m)
		}
	}
	return UnknownParams
}

// ExtractLicense returns the value of the first "license:" tag, or "other".
func ExtractLicense(tags []string) string {
	for _, tag := range tags {
		if v, ok := strings.CutPrefix(tag, licensePrefix); ok {
			return v
		}
	}
	return DefaultLicense
}

// EstimateVRAM approximates inference memory for FP16 weights: two bytes per
// parameter plus a flat 20% for activations and KV cache. Mixture-of-experts
// labels all land in the same high bucket.
func EstimateVRAM(params string) string {
	if params == UnknownParams {
		return UnknownParams
	}
	if strings.ContainsAny(params, "xX") {
		return MoEVRAM
	}

	num := leadingNumber.FindString(params)
	if num == "" {
		return UnknownParams
	}
	magnitude, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return UnknownParams
	}

	estimatedGB := math.Ceil(magnitude * 2 * 1.2)
	if estimatedGB >= math.MaxInt64 {
		return UnknownParams
	}
	return fmt.Sprintf("%dGB", int64(estimatedGB))
}

// releaseDate returns the date component of a provider timestamp as written,
// without shifting it to another zone. Timestamps that do not start with a
// date are parsed as RFC 3339. Empty or unparseable input falls back to now.
func releaseDate(createdAt string, now time.Time) string {
	createdAt = strings.TrimSpace(createdAt)
	if len(createdAt) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, createdAt[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout)
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		return t.UTC().Format(dateLayout)
	}
	return now.UTC().Format(dateLayout)
}
