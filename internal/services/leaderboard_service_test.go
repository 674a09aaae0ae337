package services

import (
	"context"
	"testing"
	"time"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
)

func standings(n int) []dtos.LeaderboardEntry {
	entries := make([]dtos.LeaderboardEntry, n)
	for i := range entries {
		entries[i] = dtos.LeaderboardEntry{Rank: i + 1, Username: "user", Views: int64(1000 - i)}
	}
	return entries
}

func TestLeaderboardService_CachesWithinWindow(t *testing.T) {
	calls := 0
	api := &fakeEngagementAPI{
		leaderboardFunc: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			calls++
			return standings(5), 200, nil
		},
	}
	svc := NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute))

	ctx := context.Background()
	first := svc.Get(ctx, "contest-1", 10)
	second := svc.Get(ctx, "contest-1", 10)

	if calls != 1 {
		t.Errorf("Expected 1 upstream call inside the poll window, got %d", calls)
	}
	if len(first) != 5 || len(second) != 5 {
		t.Errorf("Expected 5 entries, got %d and %d", len(first), len(second))
	}
	if first[0].Rank != 1 {
		t.Errorf("Expected backend-owned rank 1 first, got %d", first[0].Rank)
	}
}

func TestLeaderboardService_FailureYieldsEmptyNotError(t *testing.T) {
	api := &fakeEngagementAPI{
		leaderboardFunc: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			return nil, 0, &providers.ProviderError{Code: constants.ErrCodeNetworkError, Message: "down"}
		},
	}
	svc := NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute))

	entries := svc.Get(context.Background(), "contest-1", 10)
	if entries == nil {
		t.Fatal("Expected an empty slice, not nil")
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty standings on failure, got %d", len(entries))
	}
}

func TestLeaderboardService_FailureKeepsPriorCache(t *testing.T) {
	healthy := true
	api := &fakeEngagementAPI{
		leaderboardFunc: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			if !healthy {
				return nil, 0, &providers.ProviderError{Code: constants.ErrCodeNetworkError, Message: "down"}
			}
			return standings(3), 200, nil
		},
	}
	svc := NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute))

	ctx := context.Background()
	svc.Get(ctx, "contest-1", 10)

	healthy = false
	svc.Refresh(ctx, "contest-1")

	entries := svc.Get(ctx, "contest-1", 10)
	if len(entries) != 3 {
		t.Errorf("Prior standings must survive a failed refresh, got %d entries", len(entries))
	}
}

func TestLeaderboardService_SmallLimitDoesNotPinShortCache(t *testing.T) {
	calls := 0
	api := &fakeEngagementAPI{
		leaderboardFunc: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			calls++
			if limit != 0 {
				t.Errorf("Expected full-list fetch on cache miss, got limit %d", limit)
			}
			return standings(20), 200, nil
		},
	}
	svc := NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute))

	ctx := context.Background()
	first := svc.Get(ctx, "contest-1", 3)
	second := svc.Get(ctx, "contest-1", 10)

	if calls != 1 {
		t.Errorf("Expected 1 upstream call, got %d", calls)
	}
	if len(first) != 3 {
		t.Errorf("Expected 3 entries for the first request, got %d", len(first))
	}
	if len(second) != 10 {
		t.Errorf("A later larger-limit request must see the full cached list, got %d", len(second))
	}
}

func TestLeaderboardService_LimitClampsCachedResult(t *testing.T) {
	api := &fakeEngagementAPI{
		leaderboardFunc: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			return standings(20), 200, nil
		},
	}
	svc := NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute))

	entries := svc.Get(context.Background(), "contest-1", 5)
	if len(entries) != 5 {
		t.Errorf("Expected limit to clamp to 5, got %d", len(entries))
	}
}
