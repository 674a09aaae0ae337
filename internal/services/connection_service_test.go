package services

import (
	"context"
	"testing"
	"time"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/models/entities"
	"crown-platform/backend/internal/providers"
)

// fakeEngagementAPI lets each test script upstream behavior.
type fakeEngagementAPI struct {
	listAccountsCalls int
	listAccountsFunc  func() ([]entities.TikTokAccount, int, error)
	setPrimaryFunc    func(accountID string) (int, error)
	initiateFunc      func(req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error)
	listVideosFunc    func() ([]dtos.Video, int, error)
	leaderboardFunc   func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error)
}

func (f *fakeEngagementAPI) InitiateAuth(ctx context.Context, token string, req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error) {
	if f.initiateFunc != nil {
		return f.initiateFunc(req)
	}
	return &dtos.AuthInitiateResponse{AuthURL: "https://www.tiktok.com/v2/auth"}, 200, nil
}

func (f *fakeEngagementAPI) ListAccounts(ctx context.Context, token string) ([]entities.TikTokAccount, int, error) {
	f.listAccountsCalls++
	if f.listAccountsFunc != nil {
		return f.listAccountsFunc()
	}
	return nil, 200, nil
}

func (f *fakeEngagementAPI) SetPrimary(ctx context.Context, token string, accountID string) (int, error) {
	if f.setPrimaryFunc != nil {
		return f.setPrimaryFunc(accountID)
	}
	return 200, nil
}

func (f *fakeEngagementAPI) DeleteAccount(ctx context.Context, token string, accountID string) (int, error) {
	return 200, nil
}

func (f *fakeEngagementAPI) Disconnect(ctx context.Context, token string) (int, error) {
	return 200, nil
}

func (f *fakeEngagementAPI) ListVideos(ctx context.Context, token string) ([]dtos.Video, int, error) {
	if f.listVideosFunc != nil {
		return f.listVideosFunc()
	}
	return nil, 200, nil
}

func (f *fakeEngagementAPI) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
	if f.leaderboardFunc != nil {
		return f.leaderboardFunc(contestID, limit)
	}
	return nil, 200, nil
}

func twoAccounts() []entities.TikTokAccount {
	return []entities.TikTokAccount{
		{ID: "acc-1", Username: "main", IsPrimary: true},
		{ID: "acc-2", Username: "alt"},
	}
}

func TestConnectionService_RefreshDebounce(t *testing.T) {
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			return twoAccounts(), 200, nil
		},
	}
	svc := NewConnectionService(api, nil, nil)

	ctx := context.Background()
	if _, err := svc.RefreshConnection(ctx, "u1", "tok", false); err != nil {
		t.Fatalf("First refresh failed: %v", err)
	}

	// Second call inside the 5s window: served from local state.
	state, err := svc.RefreshConnection(ctx, "u1", "tok", false)
	if err != nil {
		t.Fatalf("Debounced refresh failed: %v", err)
	}
	if api.listAccountsCalls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", api.listAccountsCalls)
	}
	if !state.Connected() {
		t.Errorf("Expected connected state, got %s", state.Status)
	}

	// Forced call bypasses the debounce.
	if _, err := svc.RefreshConnection(ctx, "u1", "tok", true); err != nil {
		t.Fatalf("Forced refresh failed: %v", err)
	}
	if api.listAccountsCalls != 2 {
		t.Errorf("Expected 2 upstream calls after force, got %d", api.listAccountsCalls)
	}

	// Past the window the debounce no longer applies.
	svc.now = func() time.Time { return time.Now().Add(6 * time.Second) }
	if _, err := svc.RefreshConnection(ctx, "u1", "tok", false); err != nil {
		t.Fatalf("Post-window refresh failed: %v", err)
	}
	if api.listAccountsCalls != 3 {
		t.Errorf("Expected 3 upstream calls after window, got %d", api.listAccountsCalls)
	}
}

func TestConnectionService_NetworkErrorPreservesState(t *testing.T) {
	healthy := true
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			if healthy {
				return twoAccounts(), 200, nil
			}
			return nil, 0, &providers.ProviderError{
				Code:    constants.ErrCodeNetworkError,
				Message: "connection refused",
			}
		},
	}
	svc := NewConnectionService(api, nil, nil)

	ctx := context.Background()
	if _, err := svc.RefreshConnection(ctx, "u1", "tok", true); err != nil {
		t.Fatalf("Seed refresh failed: %v", err)
	}

	healthy = false
	state, err := svc.RefreshConnection(ctx, "u1", "tok", true)
	if err == nil {
		t.Fatal("Expected the transport error to surface")
	}
	if !state.Connected() {
		t.Errorf("Transport failure must not flip state to %s", state.Status)
	}
	if len(state.Accounts) != 2 {
		t.Errorf("Prior accounts lost: %d", len(state.Accounts))
	}
}

func TestConnectionService_UpstreamErrorResetsState(t *testing.T) {
	fail := false
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			if fail {
				return nil, 401, &providers.ProviderError{
					Code:    constants.ErrCodeAuthenticationFailed,
					Message: "token rejected",
				}
			}
			return twoAccounts(), 200, nil
		},
	}
	svc := NewConnectionService(api, nil, nil)

	ctx := context.Background()
	svc.RefreshConnection(ctx, "u1", "tok", true)

	fail = true
	state, err := svc.RefreshConnection(ctx, "u1", "tok", true)
	if err == nil {
		t.Fatal("Expected the upstream error to surface")
	}
	if state.Status != ConnectionDisconnected {
		t.Errorf("Expected disconnected after upstream rejection, got %s", state.Status)
	}
	if len(state.Accounts) != 0 {
		t.Errorf("Expected empty accounts after reset, got %d", len(state.Accounts))
	}
}

func TestConnectionService_NoTokenIsNoOpReset(t *testing.T) {
	api := &fakeEngagementAPI{}
	svc := NewConnectionService(api, nil, nil)

	state, err := svc.RefreshConnection(context.Background(), "u1", "", true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Status != ConnectionDisconnected {
		t.Errorf("Expected disconnected, got %s", state.Status)
	}
	if api.listAccountsCalls != 0 {
		t.Errorf("Expected no upstream calls without a session, got %d", api.listAccountsCalls)
	}
}

func TestConnectionService_SetPrimaryRefreshesOnSuccess(t *testing.T) {
	primary := "acc-1"
	api := &fakeEngagementAPI{}
	api.setPrimaryFunc = func(accountID string) (int, error) {
		primary = accountID
		return 200, nil
	}
	api.listAccountsFunc = func() ([]entities.TikTokAccount, int, error) {
		accounts := twoAccounts()
		for i := range accounts {
			accounts[i].IsPrimary = accounts[i].ID == primary
		}
		return accounts, 200, nil
	}

	svc := NewConnectionService(api, nil, nil)
	ctx := context.Background()

	state, err := svc.SetPrimaryAccount(ctx, "u1", "tok", "acc-2")
	if err != nil {
		t.Fatalf("SetPrimaryAccount failed: %v", err)
	}

	if state.Primary == nil || state.Primary.ID != "acc-2" {
		t.Fatalf("Expected acc-2 primary, got %+v", state.Primary)
	}
	count := 0
	for _, acc := range state.Accounts {
		if acc.IsPrimary {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one primary account, got %d", count)
	}
}

func TestConnectionService_SetPrimaryFailureIsNotOptimistic(t *testing.T) {
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			return twoAccounts(), 200, nil
		},
		setPrimaryFunc: func(accountID string) (int, error) {
			return 500, &providers.ProviderError{Code: constants.ErrCodeUpstreamError, Message: "boom"}
		},
	}
	svc := NewConnectionService(api, nil, nil)
	ctx := context.Background()

	svc.RefreshConnection(ctx, "u1", "tok", true)
	before := api.listAccountsCalls

	if _, err := svc.SetPrimaryAccount(ctx, "u1", "tok", "acc-2"); err == nil {
		t.Fatal("Expected set-primary failure to propagate")
	}
	if api.listAccountsCalls != before {
		t.Error("A failed set-primary must not trigger a refresh")
	}

	state := svc.State("u1")
	if state.Primary == nil || state.Primary.ID != "acc-1" {
		t.Errorf("Primary changed without server confirmation: %+v", state.Primary)
	}
}

func TestConnectionService_DisconnectAllResetsEagerly(t *testing.T) {
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			return twoAccounts(), 200, nil
		},
	}
	svc := NewConnectionService(api, nil, nil)
	ctx := context.Background()

	svc.RefreshConnection(ctx, "u1", "tok", true)
	before := api.listAccountsCalls

	state, err := svc.DisconnectAll(ctx, "u1", "tok")
	if err != nil {
		t.Fatalf("DisconnectAll failed: %v", err)
	}
	if state.Status != ConnectionDisconnected || len(state.Accounts) != 0 {
		t.Errorf("Expected eager full reset, got %+v", state)
	}
	if api.listAccountsCalls != before {
		t.Error("Disconnect-all must not depend on a follow-up refresh")
	}
}

func TestConnectionService_AwaitConnectedPollsUntilLinked(t *testing.T) {
	api := &fakeEngagementAPI{}
	api.listAccountsFunc = func() ([]entities.TikTokAccount, int, error) {
		// The first polls see no linked account; the third sees it land.
		if api.listAccountsCalls < 3 {
			return nil, 200, nil
		}
		return twoAccounts(), 200, nil
	}
	svc := NewConnectionService(api, nil, nil)
	svc.poll = time.Millisecond

	state, err := svc.AwaitConnected(context.Background(), "u1", "tok")
	if err != nil {
		t.Fatalf("AwaitConnected failed: %v", err)
	}
	if !state.Connected() {
		t.Fatalf("Expected connected state, got %s", state.Status)
	}
	if state.Primary == nil || state.Primary.ID != "acc-1" {
		t.Errorf("Expected primary acc-1, got %+v", state.Primary)
	}
	if state.Reconnecting {
		t.Error("Reconnecting flag must clear once the connect lands")
	}
	if api.listAccountsCalls < 3 {
		t.Errorf("Expected at least 3 polls, got %d", api.listAccountsCalls)
	}
}

func TestConnectionService_AwaitConnectedStopsOnCancel(t *testing.T) {
	api := &fakeEngagementAPI{
		listAccountsFunc: func() ([]entities.TikTokAccount, int, error) {
			return nil, 200, nil
		},
	}
	svc := NewConnectionService(api, nil, nil)
	svc.poll = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	state, err := svc.AwaitConnected(ctx, "u1", "tok")
	if err == nil {
		t.Fatal("Expected the context error after cancellation")
	}
	if state == nil {
		t.Fatal("Cancellation must still return the latest observed state")
	}
	if state.Connected() {
		t.Errorf("Expected a non-connected state, got %s", state.Status)
	}
}
