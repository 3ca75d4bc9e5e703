package handler

import (
	"net/http"

	"interviewlens/internal/service"
)

// SchedulerHandler exposes scheduler control endpoints
type SchedulerHandler struct {
	scheduler *service.Scheduler
}

// NewSchedulerHandler creates a new scheduler handler
func NewSchedulerHandler(scheduler *service.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler}
}

// Start handles POST /v1/scheduler/start
func (h *SchedulerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Start()
	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

// Stop handles POST /v1/scheduler/stop
func (h *SchedulerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.scheduler.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Scan handles POST /v1/scheduler/scan
func (h *SchedulerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	h.scheduler.TriggerScan()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scan requested"})
}

// Stats handles GET /v1/scheduler/stats
func (h *SchedulerHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Stats())
}

// Jobs handles GET /v1/scheduler/jobs
func (h *SchedulerHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.scheduler.Jobs())
}
