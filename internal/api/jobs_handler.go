package api

import (
	"net/http"

	"crown-platform/backend/internal/jobs"
)

// JobsHandler exposes manual triggers for background jobs.
type JobsHandler struct {
	lifecycle *jobs.ContestLifecycleJob
}

func NewJobsHandler(lifecycle *jobs.ContestLifecycleJob) *JobsHandler {
	return &JobsHandler{lifecycle: lifecycle}
}

// TriggerLifecycle runs one contest lifecycle pass immediately.
func (h *JobsHandler) TriggerLifecycle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.lifecycle.RunOnce(r.Context())

		msg := "lifecycle pass completed"
		respondWithSuccess(w, http.StatusOK, &msg)
	}
}
