package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"interviewlens/internal/cache"
	"interviewlens/internal/repository"
)

// ResultHandler serves finished evaluations
type ResultHandler struct {
	results     repository.ResultRepo
	resultCache cache.ResultCache
}

// NewResultHandler creates a new result handler. resultCache may be nil.
func NewResultHandler(results repository.ResultRepo, resultCache cache.ResultCache) *ResultHandler {
	return &ResultHandler{results: results, resultCache: resultCache}
}

// Get handles GET /v1/results/{id}
func (h *ResultHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if h.resultCache != nil {
		if record, err := h.resultCache.Get(r.Context(), id); err != nil {
			log.Printf("Result cache get failed for %s: %v", id, err)
		} else if record != nil {
			writeJSON(w, http.StatusOK, record)
			return
		}
	}

	record, err := h.results.GetByCandidate(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}

	if h.resultCache != nil {
		if err := h.resultCache.Set(r.Context(), record); err != nil {
			log.Printf("Result cache set failed for %s: %v", id, err)
		}
	}
	writeJSON(w, http.StatusOK, record)
}

// List handles GET /v1/results
func (h *ResultHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.results.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, records)
}
