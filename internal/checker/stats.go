package checker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

const (
	activityIdle     = "System Idle"
	activityParsing  = "Parsing model metadata..."
	activityUpdating = "Updating Database..."
	activityFailed   = "Error: Connection Failed"

	// sizeAmplification scales the serialized batch into a rough on-disk
	// figure. The result is display-only and not storage accounting.
	sizeAmplification = 5
)

// InitialStats returns the snapshot shown before any cycle has run.
func InitialStats(now time.Time) models.Stats {
	return models.Stats{
		TotalModels:     0,
		LastCheck:       now,
		Status:          models.StatusIdle,
		DBSize:          "0.0 MB",
		APIRequests:     0,
		CurrentActivity: activityIdle,
	}
}

// NextStats projects the snapshot after a completed cycle. Only the batch is
// consulted: TotalModels grows by the batch size even when records were
// already known, and DBSize is estimated from the batch alone.
func NextStats(prev models.Stats, batch []models.ModelRecord, now time.Time) models.Stats {
	next := prev
	next.TotalModels = prev.TotalModels + len(batch)
	next.LastCheck = now
	next.Status = models.StatusIdle
	next.DBSize = EstimateSize(batch)
	next.APIRequests = prev.APIRequests + 1
	next.CurrentActivity = activityIdle
	return next
}

// FailedStats projects the snapshot after a provider failure. Counters are
// left untouched.
func FailedStats(prev models.Stats) models.Stats {
	next := prev
	next.Status = models.StatusError
	next.CurrentActivity = activityFailed
	return next
}

// EstimateSize formats an illustrative size for a batch of records, derived
// from the length of its JSON encoding.
func EstimateSize(batch []models.ModelRecord) string {
	if batch == nil {
		batch = []models.ModelRecord{}
	}
	data, err := json.Marshal(batch)
	if err != nil {
		return "0.00 KB"
	}
	kb := float64(len(data)*sizeAmplification) / 1024
	return fmt.Sprintf("%.2f KB", kb)
}
