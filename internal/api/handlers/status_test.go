package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/hoanghai1803/llmchecker/internal/models"
)

type fakeClients int

func (f fakeClients) Clients() int { return int(f) }

func TestGetStats(t *testing.T) {
	chk := seededChecker(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	GetStats(chk).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	got := decode[map[string]any](t, w.Body)
	if got["totalModels"] != float64(5) {
		t.Errorf("totalModels = %v, want 5", got["totalModels"])
	}
	if got["status"] != string(models.StatusIdle) {
		t.Errorf("status = %v, want IDLE", got["status"])
	}
	if got["apiRequests"] != float64(1) {
		t.Errorf("apiRequests = %v, want 1", got["apiRequests"])
	}
	for _, key := range []string{"lastCheck", "dbSize", "currentActivity"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %v", key, got)
		}
	}
}

func TestGetLogs(t *testing.T) {
	chk := newTestChecker(t, &staticProvider{candidates: testCandidates()}, nil)
	chk.LogStartup("test")
	seedCycle := chk.RunCycle(t.Context())
	total := chk.Sink().Len()
	if total != 2+len(seedCycle.Events) {
		t.Fatalf("sink has %d events, want %d", total, 2+len(seedCycle.Events))
	}

	tests := []struct {
		name      string
		query     string
		wantCount int
		wantFirst string
	}{
		{name: "all", query: "", wantCount: total, wantFirst: "llm-checker daemon started test"},
		{name: "since", query: "?since=2", wantCount: total - 2, wantFirst: "Starting scheduled poll of Test Hub..."},
		{name: "caught up", query: "?since=" + strconv.Itoa(total), wantCount: 0},
		{name: "past the end", query: "?since=999", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/logs"+tt.query, nil)
			w := httptest.NewRecorder()
			GetLogs(chk).ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
			}
			got := decode[LogPage](t, w.Body)
			if got.Data == nil || len(got.Data) != tt.wantCount {
				t.Fatalf("got %d events, want %d", len(got.Data), tt.wantCount)
			}
			if tt.wantFirst != "" && got.Data[0].Message != tt.wantFirst {
				t.Errorf("first message = %q, want %q", got.Data[0].Message, tt.wantFirst)
			}
			if got.Next != total {
				t.Errorf("next = %d, want %d", got.Next, total)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		store := newTestStore(t)
		chk := seededChecker(t, store)

		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		Health(chk, store, fakeClients(2)).ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
		}
		got := decode[map[string]any](t, w.Body)
		if got["status"] != "ok" || got["database"] != "ok" {
			t.Errorf("got %v", got)
		}
		if got["provider"] != "Test Hub" || got["models"] != float64(5) || got["stream_clients"] != float64(2) {
			t.Errorf("got %v", got)
		}
		if got["running"] != false {
			t.Errorf("running = %v, want false", got["running"])
		}
	})

	t.Run("database closed", func(t *testing.T) {
		store := newTestStore(t)
		chk := seededChecker(t, nil)
		store.Close()

		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		Health(chk, store, fakeClients(0)).ServeHTTP(w, r)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("got status %d, want %d", w.Code, http.StatusServiceUnavailable)
		}
		got := decode[map[string]any](t, w.Body)
		if got["status"] != "degraded" {
			t.Errorf("status = %v, want degraded", got["status"])
		}
	})
}
