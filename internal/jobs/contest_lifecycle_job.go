package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/services"
)

// ContestLifecycleJob walks contests through their scheduled status
// changes: drafts go active at start, active contests end at their end
// date. Manual admin transitions still apply between runs.
type ContestLifecycleJob struct {
	contests  *services.ContestService
	scheduler gocron.Scheduler
}

func NewContestLifecycleJob(contests *services.ContestService) *ContestLifecycleJob {
	return &ContestLifecycleJob{contests: contests}
}

// Start schedules the lifecycle pass on its fixed cadence.
func (j *ContestLifecycleJob) Start(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	j.scheduler = sched

	_, err = sched.NewJob(
		gocron.DurationJob(constants.ContestLifecycleInterval),
		gocron.NewTask(func() {
			j.RunOnce(ctx)
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	logging.Info("Contest lifecycle job scheduled", "interval", constants.ContestLifecycleInterval.String())
	return nil
}

// RunOnce executes a single lifecycle pass; the admin trigger endpoint
// calls it directly.
func (j *ContestLifecycleJob) RunOnce(ctx context.Context) {
	if err := j.contests.RunLifecycle(ctx, time.Now()); err != nil {
		logging.Warn("Contest lifecycle pass failed", "error", err.Error())
	}
}

// Stop shuts the scheduler down.
func (j *ContestLifecycleJob) Stop() {
	if j.scheduler != nil {
		_ = j.scheduler.Shutdown()
	}
}
