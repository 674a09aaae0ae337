package workers

import (
	"context"
	"time"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/metrics"
)

// SessionExpiryWorker sweeps the session keyspace once a minute and kills
// sessions past their window. This is the server-side counterpart of the
// client's periodic check: a user who closes the tab still gets signed
// out on schedule.
type SessionExpiryWorker struct {
	sessions *common.SessionService
	bus      *common.EventBus
	metrics  *metrics.MetricsRegistry
	interval time.Duration
}

func NewSessionExpiryWorker(sessions *common.SessionService, bus *common.EventBus, metricsReg *metrics.MetricsRegistry) *SessionExpiryWorker {
	return &SessionExpiryWorker{
		sessions: sessions,
		bus:      bus,
		metrics:  metricsReg,
		interval: constants.SessionSweepInterval,
	}
}

func (w *SessionExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logging.Info("Session expiry worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logging.Info("Session expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionExpiryWorker) sweep(ctx context.Context) {
	ids, err := w.sessions.ListSessionIDs(ctx)
	if err != nil {
		logging.Warn("Session sweep failed to list sessions", "error", err.Error())
		return
	}

	now := time.Now()
	expired := 0
	for _, id := range ids {
		session, err := w.sessions.GetSession(ctx, id)
		if err != nil {
			continue
		}
		if !session.Expired(now) {
			continue
		}

		if err := w.sessions.DeleteSession(ctx, id); err != nil {
			logging.Warn("Failed to delete expired session", "session_id", id, "error", err.Error())
			continue
		}
		expired++
		if w.metrics != nil {
			w.metrics.SessionsExpiredTotal.Inc()
		}
		w.bus.Publish(common.Event{
			Topic:   common.TopicSessionExpired,
			UserID:  session.UserID,
			Payload: id,
		})
	}

	if expired > 0 {
		logging.Info("Session sweep completed", "expired", expired, "scanned", len(ids))
	}
}
