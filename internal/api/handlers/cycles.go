package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/llmchecker/internal/storage"
)

// ListCycles handles GET /api/v1/cycles?limit=N. It returns the most recent
// discovery cycles, newest first.
func ListCycles(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cycles, err := store.GetRecentCycles(r.Context(), pageLimit(r))
		if err != nil {
			slog.Error("failed to get cycles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get cycles")
			return
		}
		writeJSON(w, http.StatusOK, cycles)
	}
}

// GetCycle handles GET /api/v1/cycles/{id}.
func GetCycle(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		cycle, err := store.GetCycle(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Cycle not found")
				return
			}
			slog.Error("failed to get cycle", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to get cycle")
			return
		}
		writeJSON(w, http.StatusOK, cycle)
	}
}

// CycleCounts handles GET /api/v1/cycles/summary. It returns the number of
// cycles per outcome.
func CycleCounts(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := store.CountCyclesByOutcome(r.Context())
		if err != nil {
			slog.Error("failed to count cycles", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to count cycles")
			return
		}
		writeJSON(w, http.StatusOK, counts)
	}
}
