package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
)

// FlowOutcome is the terminal state of an authorization flow.
type FlowOutcome string

const (
	FlowCompleted FlowOutcome = "completed"
	FlowTimedOut  FlowOutcome = "timed_out"
	FlowBlocked   FlowOutcome = "blocked"
)

// FlowHandle identifies an in-progress authorization flow. The AuthURL is
// what the client must open; completion is observed server-side.
type FlowHandle struct {
	ID        string    `json:"id"`
	AuthURL   string    `json:"auth_url"`
	StartedAt time.Time `json:"started_at"`
}

// CompletionCheck reports whether the delegated authorization has landed,
// typically by refreshing the user's connection state.
type CompletionCheck func(ctx context.Context) (bool, error)

// AuthFlowService is the reusable delegated-authorization flow: initiate
// upstream, hand the URL out, then poll for completion with a bounded
// wait. The two modal variants (forced account switch and plain connect)
// differ only in the initiate options.
type AuthFlowService struct {
	api          providers.EngagementAPI
	pollInterval time.Duration
	timeout      time.Duration
}

func NewAuthFlowService(api providers.EngagementAPI) *AuthFlowService {
	return &AuthFlowService{
		api:          api,
		pollInterval: constants.AuthFlowPollInterval,
		timeout:      constants.AuthFlowTimeout,
	}
}

// Initiate starts a flow. A failure to obtain an authorization URL is the
// "blocked" outcome: the flow never opened, distinct from an auth failure
// inside it.
func (s *AuthFlowService) Initiate(ctx context.Context, token string, req dtos.AuthInitiateRequest) (*FlowHandle, error) {
	resp, _, err := s.api.InitiateAuth(ctx, token, req)
	if err != nil {
		return nil, &providers.ProviderError{
			Code:    constants.ErrCodeFlowBlocked,
			Message: constants.GetErrorMessage(constants.ErrCodeFlowBlocked),
			Err:     err,
		}
	}

	handle := &FlowHandle{
		ID:        resp.FlowID,
		AuthURL:   resp.AuthURL,
		StartedAt: time.Now(),
	}
	if handle.ID == "" {
		handle.ID = uuid.New().String()
	}

	logging.Info("Authorization flow initiated", "flow_id", handle.ID)
	return handle, nil
}

// AwaitCompletion polls check until it reports done, the 5-minute budget
// runs out, or ctx is cancelled. Check errors are tolerated and retried;
// only the clock ends the flow.
func (s *AuthFlowService) AwaitCompletion(ctx context.Context, handle *FlowHandle, check CompletionCheck) (FlowOutcome, error) {
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return FlowTimedOut, ctx.Err()
		case <-deadline.C:
			logging.Warn("Authorization flow timed out", "flow_id", handle.ID)
			return FlowTimedOut, &providers.ProviderError{
				Code:    constants.ErrCodeFlowTimedOut,
				Message: constants.GetErrorMessage(constants.ErrCodeFlowTimedOut),
			}
		case <-ticker.C:
			done, err := check(ctx)
			if err != nil {
				logging.Debug("Flow completion check failed, retrying", "flow_id", handle.ID, "error", err.Error())
				continue
			}
			if done {
				logging.Info("Authorization flow completed", "flow_id", handle.ID)
				return FlowCompleted, nil
			}
		}
	}
}
