package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/models/dtos"
)

// StartJoin opens the join wizard: contest checks, connection check, and
// the user's videos tagged with 24-hour eligibility.
func (h *Handlers) StartJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		contestID := chi.URLParam(r, "contest_id")

		preview, err := h.deps.Services.Join.StartJoin(r.Context(), claims.UserID(), claims.Token(), contestID)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, preview)
	}
}

// SubmitEntry finalizes the join with the selected video. Eligibility is
// re-checked server-side; a duplicate join resolves to already_joined.
func (h *Handlers) SubmitEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		contestID := chi.URLParam(r, "contest_id")

		var req dtos.SubmitEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoID == "" {
			respondWithError(w, http.StatusBadRequest, "video_id is required")
			return
		}

		result, err := h.deps.Services.Join.SubmitEntry(r.Context(), claims.UserID(), claims.Token(), contestID, req.VideoID)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		if result.AlreadyJoined {
			respondWithSuccess(w, http.StatusOK, result)
			return
		}

		h.deps.Metrics.JoinsTotal.Inc()
		h.deps.Metrics.SubmissionsTotal.Inc()
		respondWithSuccess(w, http.StatusCreated, result)
	}
}
