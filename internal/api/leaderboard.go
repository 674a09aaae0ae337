package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// GetLeaderboard serves the cached standings for a contest. Failures
// degrade to an empty list so the page renders an empty state instead of
// an error view.
func (h *Handlers) GetLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestID := chi.URLParam(r, "contest_id")

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}

		entries := h.deps.Services.Leaderboard.Get(r.Context(), contestID, limit)
		outcome := "success"
		if len(entries) == 0 {
			outcome = "empty"
		}
		h.deps.Metrics.LeaderboardFetchTotal.WithLabelValues(outcome).Inc()

		respondWithSuccess(w, http.StatusOK, &entries)
	}
}
