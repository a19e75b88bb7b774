package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/api"
	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/discovery"
	"github.com/hoanghai1803/llmchecker/internal/storage"
	"github.com/hoanghai1803/llmchecker/internal/stream"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout   = 5 * time.Second
	cyclePollInterval = 20 * time.Millisecond
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the discovery poller.",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	store, err := storage.OpenStore(storage.MemoryPath)
	if err != nil {
		return fmt.Errorf("opening cycle history: %w", err)
	}
	defer store.Close()

	provider, err := discovery.New(cfg)
	if err != nil {
		return fmt.Errorf("creating discovery provider: %w", err)
	}
	slog.Info("discovery provider configured", "provider", provider.Name())

	chk := checker.New(provider, checker.NewLogSink(), checker.Options{
		ValidateDelay: cfg.ValidateDelay(),
		Recorder:      store,
	})
	chk.LogStartup(version)

	hub := stream.NewHub(chk.Sink())
	router := api.NewRouter(chk, store, hub, cfg.Server.CORSOrigins)

	// Localhost only: the API has no authentication.
	addr := fmt.Sprintf("localhost:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr := srv.Shutdown(shutdownCtx)

		// The history store closes when runServe returns.
		if !waitForCycle(shutdownCtx, chk) {
			slog.Warn("discovery cycle still running at shutdown")
		}
		if shutdownErr != nil {
			return fmt.Errorf("shutting down server: %w", shutdownErr)
		}
		return nil
	})

	if cfg.ShouldPollOnStart() {
		chk.Trigger(ctx)
	}

	if interval := cfg.PollInterval(); interval > 0 {
		g.Go(func() error {
			poll(ctx, chk, interval)
			return nil
		})
	}

	return g.Wait()
}

// poll triggers a cycle every interval until ctx is done. A tick that lands
// while a cycle is still running is skipped.
func poll(ctx context.Context, chk *checker.Checker, interval time.Duration) {
	slog.Info("scheduled polling enabled", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if !chk.Trigger(ctx) {
				slog.Debug("scheduled poll skipped, cycle already running")
			}
		}
	}
}

// waitForCycle blocks until no cycle is running. It returns false if ctx is
// done first.
func waitForCycle(ctx context.Context, chk *checker.Checker) bool {
	ticker := time.NewTicker(cyclePollInterval)
	defer ticker.Stop()

	for chk.Running() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}
