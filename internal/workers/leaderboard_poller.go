package workers

import (
	"context"
	"time"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/services"
)

// LeaderboardPoller refreshes the standings of every active contest on
// the 30-second cadence the pages poll at, so user requests are served
// from warm cache.
type LeaderboardPoller struct {
	contests    *services.ContestService
	leaderboard *services.LeaderboardService
	interval    time.Duration
}

func NewLeaderboardPoller(contests *services.ContestService, leaderboard *services.LeaderboardService) *LeaderboardPoller {
	return &LeaderboardPoller{
		contests:    contests,
		leaderboard: leaderboard,
		interval:    constants.LeaderboardPollInterval,
	}
}

func (w *LeaderboardPoller) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logging.Info("Leaderboard poller started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logging.Info("Leaderboard poller stopped")
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *LeaderboardPoller) poll(ctx context.Context) {
	ids, err := w.contests.ActiveContestIDs(ctx)
	if err != nil {
		logging.Warn("Leaderboard poll failed to list contests", "error", err.Error())
		return
	}

	for _, id := range ids {
		w.leaderboard.Refresh(ctx, id)
	}
}
