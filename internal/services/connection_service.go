package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/models/entities"
	"crown-platform/backend/internal/providers"
)

// ConnectionStatus is the per-user account-link state machine. Transitions
// only happen through a completed upstream round trip.
type ConnectionStatus string

const (
	ConnectionUnknown      ConnectionStatus = "unknown"
	ConnectionLoading      ConnectionStatus = "loading"
	ConnectionConnected    ConnectionStatus = "connected"
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// ConnectionState is the source of truth for "is this user linked, with
// which accounts, and which is primary".
type ConnectionState struct {
	Status       ConnectionStatus         `json:"status"`
	Accounts     []entities.TikTokAccount `json:"accounts"`
	Primary      *entities.TikTokAccount  `json:"primary,omitempty"`
	Reconnecting bool                     `json:"reconnecting"`
	CheckedAt    time.Time                `json:"checked_at"`
}

// Connected is a convenience view for handlers.
func (s *ConnectionState) Connected() bool {
	return s.Status == ConnectionConnected
}

// AccountSyncer persists the latest upstream account snapshot. The sqlx
// repository implements it; tests use stubs.
type AccountSyncer interface {
	SyncForUser(ctx context.Context, userID string, accounts []entities.TikTokAccount) error
}

// ConnectionService tracks linked TikTok accounts per user and issues
// account-management calls to the engagement backend.
type ConnectionService struct {
	api    providers.EngagementAPI
	syncer AccountSyncer
	bus    *common.EventBus

	mu        sync.Mutex
	states    map[string]*ConnectionState
	lastFetch map[string]time.Time

	group    singleflight.Group
	debounce time.Duration
	poll     time.Duration
	now      func() time.Time
}

func NewConnectionService(api providers.EngagementAPI, syncer AccountSyncer, bus *common.EventBus) *ConnectionService {
	return &ConnectionService{
		api:       api,
		syncer:    syncer,
		bus:       bus,
		states:    make(map[string]*ConnectionState),
		lastFetch: make(map[string]time.Time),
		debounce:  constants.ConnectionRefreshDebounce,
		poll:      constants.ConnectPollInterval,
		now:       time.Now,
	}
}

// State returns the current snapshot for a user without touching the
// network.
func (s *ConnectionService) State(userID string) *ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID)
}

// RefreshConnection fetches the account list from the backend. Calls
// within the debounce window return the cached state unless forced;
// concurrent callers for the same user collapse into one upstream fetch.
//
// Failure semantics: a transport-level failure preserves the prior state
// (no flicker to "disconnected"); any other upstream error resets to the
// disconnected/empty state. An empty token is a no-op that resets state.
func (s *ConnectionService) RefreshConnection(ctx context.Context, userID, token string, force bool) (*ConnectionState, error) {
	if token == "" {
		return s.reset(userID), nil
	}

	s.mu.Lock()
	if !force {
		if last, ok := s.lastFetch[userID]; ok && s.now().Sub(last) < s.debounce {
			state := s.snapshotLocked(userID)
			s.mu.Unlock()
			return state, nil
		}
	}
	s.lastFetch[userID] = s.now()
	if cur := s.states[userID]; cur == nil || cur.Status == ConnectionUnknown {
		s.states[userID] = &ConnectionState{Status: ConnectionLoading}
	}
	s.mu.Unlock()

	res, err, _ := s.group.Do("refresh:"+userID, func() (interface{}, error) {
		accounts, _, err := s.api.ListAccounts(ctx, token)
		if err != nil {
			return nil, err
		}
		return accounts, nil
	})

	if err != nil {
		if providers.IsNetworkError(err) {
			// Backend unreachable: keep whatever we knew before.
			logging.Warn("Connection refresh failed, keeping prior state", "user_id", userID, "error", err.Error())
			return s.State(userID), err
		}
		logging.Error("Connection refresh rejected by backend", "user_id", userID, "error", err.Error())
		return s.reset(userID), err
	}

	accounts := res.([]entities.TikTokAccount)
	state := s.apply(userID, accounts)

	if s.syncer != nil {
		if err := s.syncer.SyncForUser(ctx, userID, accounts); err != nil {
			logging.Warn("Account snapshot sync failed", "user_id", userID, "error", err.Error())
		}
	}

	return state, nil
}

// ConnectWithVideoPermissions starts an authorization flow requesting the
// elevated video scope and forcing the account chooser. The caller opens
// the returned URL; completion is observed through AwaitConnected.
func (s *ConnectionService) ConnectWithVideoPermissions(ctx context.Context, userID, token string) (*dtos.AuthInitiateResponse, error) {
	s.setReconnecting(userID, true)

	resp, _, err := s.api.InitiateAuth(ctx, token, dtos.AuthInitiateRequest{
		ForceAccountSelection:     true,
		EmphasizeVideoPermissions: true,
	})
	if err != nil {
		s.setReconnecting(userID, false)
		return nil, err
	}
	return resp, nil
}

// AwaitConnected polls the connection every 500ms until the user shows up
// as connected or ctx is cancelled. This path deliberately has no hard
// timeout; the modal-driven flows use AuthFlowService instead.
func (s *ConnectionService) AwaitConnected(ctx context.Context, userID, token string) (*ConnectionState, error) {
	defer s.setReconnecting(userID, false)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			state, _ := s.RefreshConnection(context.WithoutCancel(ctx), userID, token, true)
			return state, ctx.Err()
		case <-ticker.C:
			state, err := s.RefreshConnection(ctx, userID, token, true)
			if err == nil && state.Connected() {
				return state, nil
			}
		}
	}
}

// SetPrimaryAccount requests the primary transition and refreshes on
// success. The transition is never applied optimistically; local state
// only changes after the backend confirms.
func (s *ConnectionService) SetPrimaryAccount(ctx context.Context, userID, token, accountID string) (*ConnectionState, error) {
	if _, err := s.api.SetPrimary(ctx, token, accountID); err != nil {
		return nil, err
	}
	return s.RefreshConnection(ctx, userID, token, true)
}

// DeleteAccount unlinks one account and relies on a forced refresh rather
// than mutating local state eagerly.
func (s *ConnectionService) DeleteAccount(ctx context.Context, userID, token, accountID string) (*ConnectionState, error) {
	if _, err := s.api.DeleteAccount(ctx, token, accountID); err != nil {
		return nil, err
	}
	return s.RefreshConnection(ctx, userID, token, true)
}

// DisconnectAll unlinks every account. This is the one path that clears
// local state eagerly (full reset).
func (s *ConnectionService) DisconnectAll(ctx context.Context, userID, token string) (*ConnectionState, error) {
	if _, err := s.api.Disconnect(ctx, token); err != nil {
		return nil, err
	}

	state := s.reset(userID)
	if s.syncer != nil {
		if err := s.syncer.SyncForUser(ctx, userID, nil); err != nil {
			logging.Warn("Account snapshot clear failed", "user_id", userID, "error", err.Error())
		}
	}
	return state, nil
}

func (s *ConnectionService) apply(userID string, accounts []entities.TikTokAccount) *ConnectionState {
	state := &ConnectionState{
		Accounts:  accounts,
		CheckedAt: s.now(),
	}
	if len(accounts) > 0 {
		state.Status = ConnectionConnected
		for i := range accounts {
			if accounts[i].IsPrimary {
				state.Primary = &accounts[i]
				break
			}
		}
	} else {
		state.Status = ConnectionDisconnected
	}

	s.mu.Lock()
	state.Reconnecting = false
	s.states[userID] = state
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(common.Event{Topic: common.TopicVideoUpdate, UserID: userID, Payload: state.Status})
	}
	return state
}

func (s *ConnectionService) reset(userID string) *ConnectionState {
	state := &ConnectionState{
		Status:    ConnectionDisconnected,
		CheckedAt: s.now(),
	}
	s.mu.Lock()
	s.states[userID] = state
	s.mu.Unlock()
	return state
}

func (s *ConnectionService) setReconnecting(userID string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.states[userID]
	if state == nil {
		state = &ConnectionState{Status: ConnectionUnknown}
		s.states[userID] = state
	}
	state.Reconnecting = v
}

func (s *ConnectionService) snapshotLocked(userID string) *ConnectionState {
	state := s.states[userID]
	if state == nil {
		return &ConnectionState{Status: ConnectionUnknown}
	}
	copied := *state
	return &copied
}
