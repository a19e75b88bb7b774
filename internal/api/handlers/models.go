package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hoanghai1803/llmchecker/internal/checker"
	"github.com/hoanghai1803/llmchecker/internal/models"
)

// ListMeta describes one page of a list response.
type ListMeta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ModelList is the response of GET /api/v1/models.
type ModelList struct {
	Data []models.ModelRecord `json:"data"`
	Meta ListMeta             `json:"meta"`
}

// ListModels handles GET /api/v1/models. It filters the collection by the
// q, license, vram and params query parameters and paginates the result in
// display order (newest release first).
func ListModels(chk *checker.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseModelFilter(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		matched := []models.ModelRecord{}
		for _, m := range chk.Models() {
			if filter.match(m) {
				matched = append(matched, m)
			}
		}

		limit := pageLimit(r)
		page := queryInt(r, "page", 1)

		// Bound page before multiplying so huge values cannot overflow.
		start := len(matched)
		if page-1 <= len(matched)/limit {
			start = min((page-1)*limit, len(matched))
		}
		end := min(start+limit, len(matched))

		writeJSON(w, http.StatusOK, ModelList{
			Data: matched[start:end],
			Meta: ListMeta{Total: len(matched), Page: page, Limit: limit},
		})
	}
}

// GetModel handles GET /api/v1/models/{provider}/{name}.
func GetModel(chk *checker.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "provider") + "/" + chi.URLParam(r, "name")

		m, ok := chk.Model(id)
		if !ok {
			writeError(w, http.StatusNotFound, "Model not found")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}
