package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// LogPage is the response of GET /api/v1/logs. Next is the offset to pass as
// since on the following poll.
type LogPage struct {
	Data []models.LogEvent `json:"data"`
	Next int               `json:"next"`
}

// GetStats handles GET /api/v1/stats.
func GetStats(chk *checker.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chk.Stats())
	}
}

// GetLogs handles GET /api/v1/logs?since=N. It returns the events after the
// first N in append order.
func GetLogs(chk *checker.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since := min(queryInt(r, "since", 0), chk.Sink().Len())
		events := chk.Sink().Since(since)

		writeJSON(w, http.StatusOK, LogPage{
			Data: events,
			Next: since + len(events),
		})
	}
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ClientCounter reports connected stream clients.
type ClientCounter interface {
	Clients() int
}

// Health handles GET /healthz. It answers 503 when the history database is
// unreachable.
func Health(chk *checker.Checker, db Pinger, streams ClientCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code, dbStatus := "ok", http.StatusOK, "ok"
		if err := db.Ping(ctx); err != nil {
			slog.Error("health check: database unreachable", "error", err)
			status, code, dbStatus = "degraded", http.StatusServiceUnavailable, "unreachable"
		}

		writeJSON(w, code, map[string]any{
			"status":         status,
			"database":       dbStatus,
			"provider":       chk.ProviderName(),
			"running":        chk.Running(),
			"models":         len(chk.Models()),
			"stream_clients": streams.Clients(),
		})
	}
}
