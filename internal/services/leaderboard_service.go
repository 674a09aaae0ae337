package services

import (
	"context"
	"time"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
)

// LeaderboardService is the read-only standings client: a cached,
// idempotent fetch against the engagement backend. Rank is never
// computed here.
type LeaderboardService struct {
	api   providers.EngagementAPI
	cache common.CacheInterface
	ttl   time.Duration
}

func NewLeaderboardService(api providers.EngagementAPI, cache common.CacheInterface) *LeaderboardService {
	return &LeaderboardService{
		api:   api,
		cache: cache,
		ttl:   constants.LeaderboardPollInterval,
	}
}

func leaderboardKey(contestID string) string {
	return "leaderboard:" + contestID
}

// Get returns the standings for a contest, served from cache within the
// poll window. A fetch failure yields an empty list, never an error view;
// any previously cached standings stay available for the poller to serve.
func (svc *LeaderboardService) Get(ctx context.Context, contestID string, limit int) []dtos.LeaderboardEntry {
	if cached, found := svc.cache.Get(leaderboardKey(contestID)); found {
		if entries, ok := cached.([]dtos.LeaderboardEntry); ok {
			return clampEntries(entries, limit)
		}
	}

	// Always cache the full standings so a small-limit request does not
	// pin a truncated list for later callers.
	entries, ok := svc.fetch(ctx, contestID, 0)
	if !ok {
		return []dtos.LeaderboardEntry{}
	}
	return clampEntries(entries, limit)
}

// Refresh bypasses the cache; the background poller drives it.
func (svc *LeaderboardService) Refresh(ctx context.Context, contestID string) {
	svc.fetch(ctx, contestID, 0)
}

func (svc *LeaderboardService) fetch(ctx context.Context, contestID string, limit int) ([]dtos.LeaderboardEntry, bool) {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.LeaderboardRequestTimeout)
	defer cancel()

	entries, _, err := svc.api.GetLeaderboard(fetchCtx, contestID, limit)
	if err != nil {
		logging.Warn("Leaderboard fetch failed", "contest_id", contestID, "error", err.Error())
		return nil, false
	}
	if entries == nil {
		entries = []dtos.LeaderboardEntry{}
	}

	svc.cache.Set(leaderboardKey(contestID), entries, svc.ttl)
	return entries, true
}

func clampEntries(entries []dtos.LeaderboardEntry, limit int) []dtos.LeaderboardEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
