package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/config"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

func TestNewLogHandler(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"text", "text", "msg=hello"},
		{"json", "json", `"msg":"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h, closeFn, err := newLogHandler(config.LogConfig{Level: "info", Format: tt.format}, &buf)
			if err != nil {
				t.Fatalf("newLogHandler() error: %v", err)
			}
			defer closeFn()

			slog.New(h).Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q should contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNewLogHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	h, closeFn, err := newLogHandler(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("newLogHandler() error: %v", err)
	}
	defer closeFn()

	logger := slog.New(h)
	logger.Info("quiet")
	logger.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Error("warn record should be written")
	}
}

func TestNewLogHandler_FanOutToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llmchecker.log")

	var buf bytes.Buffer
	h, closeFn, err := newLogHandler(config.LogConfig{Level: "info", Format: "text", File: path}, &buf)
	if err != nil {
		t.Fatalf("newLogHandler() error: %v", err)
	}

	slog.New(h).Info("cycle finished", "outcome", "success")
	if err := closeFn(); err != nil {
		t.Fatalf("closing log file: %v", err)
	}

	if !strings.Contains(buf.String(), "cycle finished") {
		t.Error("console handler should receive the record")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file should hold one JSON record, got %q: %v", data, err)
	}
	if rec["msg"] != "cycle finished" || rec["outcome"] != "success" {
		t.Errorf("file record = %v", rec)
	}
}

func TestNewLogHandler_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "llmchecker.log")
	if _, _, err := newLogHandler(config.LogConfig{Level: "info", File: path}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for a log file in a missing directory")
	}
}

func TestPrintEvent(t *testing.T) {
	var buf bytes.Buffer
	printEvent(&buf, models.LogEvent{
		Timestamp: time.Now(),
		Level:     models.LevelSuccess,
		Module:    models.ModuleDB,
		Message:   "Sync complete. Database updated.",
	})

	line := buf.String()
	if !strings.Contains(line, "SUCCESS [DB] Sync complete. Database updated.") {
		t.Errorf("printEvent() = %q", line)
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	printStats(&buf, models.Stats{
		TotalModels: 3,
		Status:      models.StatusIdle,
		DBSize:      "1.25 KB",
		APIRequests: 2,
		LastCheck:   time.Now(),
	})

	for _, want := range []string{"Status:       IDLE", "Total models: 3", "DB size:      1.25 KB", "API requests: 2"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("printStats() output missing %q:\n%s", want, buf.String())
		}
	}
}

type parkedProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *parkedProvider) Name() string { return "Parked Hub" }

func (p *parkedProvider) Discover(_ context.Context) ([]models.Candidate, error) {
	close(p.entered)
	<-p.release
	return nil, nil
}

func TestWaitForCycle(t *testing.T) {
	p := &parkedProvider{entered: make(chan struct{}), release: make(chan struct{})}
	chk := checker.New(p, checker.NewLogSink(), checker.Options{})

	if !waitForCycle(context.Background(), chk) {
		t.Fatal("waitForCycle should return true when idle")
	}

	if !chk.Trigger(context.Background()) {
		t.Fatal("Trigger() = false, want true")
	}
	<-p.entered

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if waitForCycle(ctx, chk) {
		t.Fatal("waitForCycle should give up while the cycle is parked")
	}

	close(p.release)
	ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if !waitForCycle(ctx, chk) {
		t.Fatal("waitForCycle should return true once the cycle finishes")
	}
	if chk.Running() {
		t.Error("checker still running after waitForCycle returned")
	}
}
