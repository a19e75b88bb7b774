package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

func TestListCycles(t *testing.T) {
	store := newTestStore(t)
	chk := seededChecker(t, store)
	chk.RunCycle(context.Background())
	chk.RunCycle(context.Background())

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "default limit", query: "", wantCount: 3},
		{name: "limited", query: "?limit=2", wantCount: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/cycles"+tt.query, nil)
			w := httptest.NewRecorder()
			ListCycles(store).ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
			}
			got := decode[[]models.CycleSummary](t, w.Body)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d cycles, want %d", len(got), tt.wantCount)
			}
			if got[0].ID != 3 {
				t.Errorf("first cycle id = %d, want the newest (3)", got[0].ID)
			}
		})
	}
}

func TestListCycles_Empty(t *testing.T) {
	store := newTestStore(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/cycles", nil)
	w := httptest.NewRecorder()
	ListCycles(store).ServeHTTP(w, r)

	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want an empty JSON array", body)
	}
}

func TestGetCycle(t *testing.T) {
	store := newTestStore(t)
	seededChecker(t, store)

	router := chi.NewRouter()
	router.Get("/api/v1/cycles/{id}", GetCycle(store))

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "found", path: "/api/v1/cycles/1", wantStatus: http.StatusOK},
		{name: "not found", path: "/api/v1/cycles/999", wantStatus: http.StatusNotFound},
		{name: "bad id", path: "/api/v1/cycles/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				got := decode[models.CycleSummary](t, w.Body)
				if got.Provider != "Test Hub" || got.Outcome != models.OutcomeSuccess || got.Discovered != 5 {
					t.Errorf("got %+v", got)
				}
			}
		})
	}
}

func TestCycleCounts(t *testing.T) {
	store := newTestStore(t)
	seededChecker(t, store)

	failing := newTestChecker(t, &staticProvider{err: context.Canceled}, store)
	failing.RunCycle(context.Background())

	r := httptest.NewRequest(http.MethodGet, "/api/v1/cycles/summary", nil)
	w := httptest.NewRecorder()
	CycleCounts(store).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	got := decode[map[string]int](t, w.Body)
	if got[models.OutcomeSuccess] != 1 || got[models.OutcomeError] != 1 || got[models.OutcomeEmpty] != 0 {
		t.Errorf("counts = %v", got)
	}
}
