package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/metrics"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/models/entities"
	"crown-platform/backend/internal/providers"
	"crown-platform/backend/internal/services"
)

// One registry per test binary; promauto registers globally.
var testMetrics = metrics.NewMetricsRegistry()

type stubEngagement struct {
	leaderboard func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error)
}

func (s *stubEngagement) InitiateAuth(ctx context.Context, token string, req dtos.AuthInitiateRequest) (*dtos.AuthInitiateResponse, int, error) {
	return nil, 0, nil
}
func (s *stubEngagement) ListAccounts(ctx context.Context, token string) ([]entities.TikTokAccount, int, error) {
	return nil, 0, nil
}
func (s *stubEngagement) SetPrimary(ctx context.Context, token, accountID string) (int, error) {
	return 0, nil
}
func (s *stubEngagement) DeleteAccount(ctx context.Context, token, accountID string) (int, error) {
	return 0, nil
}
func (s *stubEngagement) Disconnect(ctx context.Context, token string) (int, error) {
	return 0, nil
}
func (s *stubEngagement) ListVideos(ctx context.Context, token string) ([]dtos.Video, int, error) {
	return nil, 0, nil
}
func (s *stubEngagement) GetLeaderboard(ctx context.Context, contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
	return s.leaderboard(contestID, limit)
}

func leaderboardRouter(api providers.EngagementAPI) http.Handler {
	deps := &Dependencies{
		Services: &Services{
			Leaderboard: services.NewLeaderboardService(api, common.NewCacheService(time.Minute, time.Minute)),
		},
		Metrics: testMetrics,
	}
	handlers := NewHandlers(deps)

	r := chi.NewRouter()
	r.Get("/contests/{contest_id}/leaderboard", handlers.GetLeaderboard())
	return r
}

func TestGetLeaderboard_ReturnsStandings(t *testing.T) {
	router := leaderboardRouter(&stubEngagement{
		leaderboard: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			if contestID != "contest-1" {
				t.Errorf("Expected contest-1, got %s", contestID)
			}
			return []dtos.LeaderboardEntry{
				{Rank: 1, Username: "alpha", Views: 900},
				{Rank: 2, Username: "beta", Views: 500},
			}, 200, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/contests/contest-1/leaderboard?limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp dtos.APIResponse[[]dtos.LeaderboardEntry]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	entries := *resp.Data
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[0].Username != "alpha" {
		t.Errorf("Backend ordering must be preserved, got %+v", entries[0])
	}
}

func TestGetLeaderboard_FailureIsEmptyTwoHundred(t *testing.T) {
	router := leaderboardRouter(&stubEngagement{
		leaderboard: func(contestID string, limit int) ([]dtos.LeaderboardEntry, int, error) {
			return nil, 0, &providers.ProviderError{Code: constants.ErrCodeNetworkError, Message: "down"}
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/contests/contest-1/leaderboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("A failed fetch must still render the empty state, got %d", rec.Code)
	}

	var resp dtos.APIResponse[[]dtos.LeaderboardEntry]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data == nil || len(*resp.Data) != 0 {
		t.Errorf("Expected empty standings, got %+v", resp.Data)
	}
}
