// Package api wires the HTTP routes of the llmchecker daemon.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/llmchecker/internal/api/handlers"
	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/storage"
	"github.com/hoanghai1803/llmchecker/internal/stream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates and configures the HTTP router with all API routes, the
// health probe and the Prometheus endpoint.
func NewRouter(chk *checker.Checker, store *storage.Store, hub *stream.Hub, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(RequestLogger)
	r.Use(Recovery)
	r.Use(CORS(corsOrigins))
	r.Use(Metrics)

	r.Get("/healthz", handlers.Health(chk, store, hub))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/models", handlers.ListModels(chk))
		api.Get("/models/{provider}/{name}", handlers.GetModel(chk))

		api.Post("/check/trigger", handlers.TriggerCheck(chk))

		api.Get("/stats", handlers.GetStats(chk))
		api.Get("/logs", handlers.GetLogs(chk))
		api.Get("/logs/stream", hub.ServeWS)

		api.Get("/cycles", handlers.ListCycles(store))
		api.Get("/cycles/summary", handlers.CycleCounts(store))
		api.Get("/cycles/{id}", handlers.GetCycle(store))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	return r
}
