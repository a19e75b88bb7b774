package handlers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// Tier names accepted by the vram and params filters.
const (
	tierLow    = "low"
	tierMedium = "medium"
	tierHigh   = "high"

	tierSmall = "small"
	tierLarge = "large"
)

var leadingNumber = regexp.MustCompile(`^\d+(?:\.\d+)?`)

// modelFilter holds the parsed query of GET /api/v1/models.
type modelFilter struct {
	query   string
	license string
	vram    string
	params  string
}

func parseModelFilter(q map[string][]string) (modelFilter, error) {
	get := func(k string) string {
		if v := q[k]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	f := modelFilter{
		query:   strings.ToLower(get("q")),
		license: strings.ToLower(get("license")),
		vram:    strings.ToLower(get("vram")),
		params:  strings.ToLower(get("params")),
	}

	switch f.vram {
	case "", tierLow, tierMedium, tierHigh:
	default:
		return f, fmt.Errorf("invalid vram tier %q: must be low, medium or high", f.vram)
	}
	switch f.params {
	case "", tierSmall, tierMedium, tierLarge:
	default:
		return f, fmt.Errorf("invalid params tier %q: must be small, medium or large", f.params)
	}
	return f, nil
}

func (f modelFilter) match(m models.ModelRecord) bool {
	if f.query != "" &&
		!strings.Contains(strings.ToLower(m.Name), f.query) &&
		!strings.Contains(strings.ToLower(m.Provider), f.query) {
		return false
	}
	if f.license != "" && !strings.EqualFold(m.License, f.license) {
		return false
	}
	if f.vram != "" && vramTier(m.VRAMSize) != f.vram {
		return false
	}
	if f.params != "" && paramsTier(m.Parameters) != f.params {
		return false
	}
	return true
}

// vramTier buckets a VRAM estimate: low up to 8GB, medium up to 24GB, high
// above that or for mixture-of-experts. Unknown estimates have no tier.
func vramTier(vram string) string {
	if vram == checker.MoEVRAM {
		return tierHigh
	}
	gb, ok := leadingFloat(vram)
	if !ok {
		return ""
	}
	switch {
	case gb <= 8:
		return tierLow
	case gb <= 24:
		return tierMedium
	default:
		return tierHigh
	}
}

// paramsTier buckets a parameter label: small below 8B, medium up to 30B,
// large above that or for mixture-of-experts. Unknown labels have no tier.
func paramsTier(params string) string {
	if params == checker.UnknownParams {
		return ""
	}
	if strings.ContainsAny(params, "xX") {
		return tierLarge
	}
	b, ok := leadingFloat(params)
	if !ok {
		return ""
	}
	switch {
	case b < 8:
		return tierSmall
	case b <= 30:
		return tierMedium
	default:
		return tierLarge
	}
}

func leadingFloat(s string) (float64, bool) {
	num := leadingNumber.FindString(s)
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	return v, err == nil
}
