package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hoanghai1803/llmchecker/internal/config"
	slogmulti "github.com/samber/slog-multi"
)

// setupLogger installs the process-wide slog handler. When a log file is
// configured, records are also written to it as JSON. The returned func
// closes that file.
func setupLogger(lc config.LogConfig, w io.Writer) (func() error, error) {
	handler, closeFn, err := newLogHandler(lc, w)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(handler))
	return closeFn, nil
}

func newLogHandler(lc config.LogConfig, w io.Writer) (slog.Handler, func() error, error) {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}

	var console slog.Handler
	switch lc.Format {
	case "json":
		console = slog.NewJSONHandler(w, opts)
	default:
		console = slog.NewTextHandler(w, opts)
	}

	if lc.File == "" {
		return console, func() error { return nil }, nil
	}

	f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	handlers := []slog.Handler{
		console,
		slog.NewJSONHandler(f, opts),
	}
	return slogmulti.Fanout(handlers...), f.Close, nil
}
