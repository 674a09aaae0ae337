package jobs

import (
	"context"

	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/services"
)

type JobsContainer struct {
	ContestLifecycle *ContestLifecycleJob
}

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(ctx context.Context, contests *services.ContestService) *JobsContainer {
	lifecycle := NewContestLifecycleJob(contests)
	if err := lifecycle.Start(ctx); err != nil {
		logging.Error("Failed to start contest lifecycle job", "error", err.Error())
	}

	return &JobsContainer{
		ContestLifecycle: lifecycle,
	}
}
