package checker

import (
	"sort"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

// Merge unions a newly discovered batch into the existing collection keyed by
// ID. A discovered record always replaces an existing one with the same key,
// and within the batch the later duplicate wins. The result is sorted by
// ReleaseDate descending with a stable sort; before sorting, discovered
// records come first followed by the surviving existing ones. Neither input
// is modified.
func Merge(existing, discovered []models.ModelRecord) []models.ModelRecord {
	merged := make([]models.ModelRecord, 0, len(existing)+len(discovered))
	index := make(map[string]int, len(existing)+len(discovered))

	for _, rec := range discovered {
		if i, ok := index[rec.ID]; ok {
			merged[i] = rec
			continue
		}
		index[rec.ID] = len(merged)
		merged = append(merged, rec)
	}

	for _, rec := range existing {
		if _, ok := index[rec.ID]; ok {
			continue
		}
		index[rec.ID] = len(merged)
		merged = append(merged, rec)
	}

	// ReleaseDate is YYYY-MM-DD, so lexical order is chronological order.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ReleaseDate > merged[j].ReleaseDate
	})

	return merged
}
