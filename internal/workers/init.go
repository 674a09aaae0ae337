package workers

import (
	"context"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/metrics"
	"crown-platform/backend/internal/services"
)

type WorkersContainer struct {
	SessionExpiry     *SessionExpiryWorker
	LeaderboardPoller *LeaderboardPoller
}

func InitWorkers(
	ctx context.Context,
	sessions *common.SessionService,
	bus *common.EventBus,
	contests *services.ContestService,
	leaderboard *services.LeaderboardService,
	metricsReg *metrics.MetricsRegistry,
) *WorkersContainer {
	sweep := NewSessionExpiryWorker(sessions, bus, metricsReg)
	poller := NewLeaderboardPoller(contests, leaderboard)

	go sweep.Start(ctx)
	go poller.Start(ctx)

	return &WorkersContainer{
		SessionExpiry:     sweep,
		LeaderboardPoller: poller,
	}
}
