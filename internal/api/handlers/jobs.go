package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/c0ughman/nasdaqst/backend/internal/scheduler"
	"github.com/c0ughman/nasdaqst/backend/pkg/logger"
)

// JobRunner is the part of the scheduler exposed over HTTP
type JobRunner interface {
	GetJobStats() map[string]scheduler.JobStats
	RunJob(name string) error
}

// JobsHandler exposes scheduler status and manual triggers
type JobsHandler struct {
	scheduler JobRunner
	logger    *logger.Logger
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(s JobRunner, log *logger.Logger) *JobsHandler {
	return &JobsHandler{
		scheduler: s,
		logger:    log.WithComponent("jobs_handler"),
	}
}

// GetStatus returns per-job statistics
// GET /api/jobs
func (h *JobsHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    h.scheduler.GetJobStats(),
	})
}

// Trigger starts a job outside its schedule
// POST /api/jobs/{name}/run
func (h *JobsHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if _, ok := h.scheduler.GetJobStats()[name]; !ok {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	if err := h.scheduler.RunJob(name); err != nil {
		if errors.Is(err, scheduler.ErrJobRunning) {
			respondError(w, http.StatusConflict, "job already running")
			return
		}
		h.logger.WithError(err).WithField("job", name).Error("Failed to trigger job")
		respondError(w, http.StatusInternalServerError, "Failed to trigger job")
		return
	}

	h.logger.WithField("job", name).Info("Job triggered via API")
	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"job":     name,
	})
}
