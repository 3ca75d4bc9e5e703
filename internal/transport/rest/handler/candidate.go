package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"interviewlens/internal/model"
	"interviewlens/internal/repository"
	"interviewlens/internal/service"
)

// CandidateHandler handles worklist endpoints
type CandidateHandler struct {
	candidates repository.CandidateRepo
	scheduler  *service.Scheduler
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(candidates repository.CandidateRepo, scheduler *service.Scheduler) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, scheduler: scheduler}
}

// Create handles POST /v1/candidates
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var c model.Candidate
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !c.HasMedia() {
		writeError(w, http.StatusBadRequest, "videoUrl is required")
		return
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}

	if err := h.candidates.Insert(r.Context(), &c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, &c)
}

// Get handles GET /v1/candidates/{id}
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.candidates.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "candidate not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Analyze handles POST /v1/candidates/{id}/analyze: run the pipeline for one
// candidate right now, without waiting for a scan.
func (h *CandidateHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := h.scheduler.ProcessNow(r.Context(), id)
	if err != nil {
		var ie *model.InvalidInputError
		if errors.As(err, &ie) {
			writeError(w, http.StatusConflict, ie.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}
