package handlers

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/models"
	"github.com/hoanghai1803/llmchecker/internal/storage"
)

// staticProvider returns the same candidates on every call.
type staticProvider struct {
	candidates []models.Candidate
	err        error
}

func (p *staticProvider) Name() string { return "Test Hub" }

func (p *staticProvider) Discover(_ context.Context) ([]models.Candidate, error) {
	return p.candidates, p.err
}

// blockingProvider parks inside Discover until released.
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func newBlockingProvider() *blockingProvider {
	return &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
}

func (p *blockingProvider) Name() string { return "Slow Hub" }

func (p *blockingProvider) Discover(_ context.Context) ([]models.Candidate, error) {
	close(p.entered)
	<-p.release
	return nil, nil
}

// testCandidates covers every filter tier once.
func testCandidates() []models.Candidate {
	return []models.Candidate{
		{ModelID: "meta-llama/Llama-3.2-3B-Instruct", Tags: []string{"license:llama3.2"}, Downloads: 890000, CreatedAt: "2024-09-25"},
		{ModelID: "Qwen/Qwen2.5-14B-Instruct", Tags: []string{"license:apache-2.0"}, CreatedAt: "2024-09-19"},
		{ModelID: "mistralai/Mistral-7B-v0.3", Tags: []string{"license:apache-2.0"}, CreatedAt: "2024-05-22"},
		{ModelID: "mistralai/Mixtral-8x7B-v0.1", Tags: []string{"license:apache-2.0"}, CreatedAt: "2023-12-11"},
		{ModelID: "acme/mystery", CreatedAt: "2023-01-01"},
	}
}

// newTestStore creates an in-memory SQLite store with migrations applied. It
// registers a cleanup function to close the database when the test completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.OpenStore(storage.MemoryPath)
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// newTestChecker creates a checker over p that records cycles into store
// (when non-nil) and never sleeps.
func newTestChecker(t *testing.T, p *staticProvider, store *storage.Store) *checker.Checker {
	t.Helper()

	opts := checker.Options{
		Now: func() time.Time { return time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC) },
	}
	if store != nil {
		opts.Recorder = store
	}
	return checker.New(p, checker.NewLogSink(), opts)
}

// seededChecker returns a checker that has completed one cycle over
// testCandidates.
func seededChecker(t *testing.T, store *storage.Store) *checker.Checker {
	t.Helper()

	chk := newTestChecker(t, &staticProvider{candidates: testCandidates()}, store)
	if res := chk.RunCycle(context.Background()); res.Err != nil {
		t.Fatalf("seeding cycle failed: %v", res.Err)
	}
	return chk
}

func waitIdle(t *testing.T, chk *checker.Checker) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for chk.Running() {
		if time.Now().After(deadline) {
			t.Fatal("cycle did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func decode[T any](t *testing.T, body io.Reader) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}
