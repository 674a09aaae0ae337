package api

import (
	"errors"
	"net/http"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/db/repositories"
)

// GetUserDetails returns the caller's profile row.
func (h *Handlers) GetUserDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		profile, err := h.deps.Repo.Profiles.GetByID(r.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, repositories.ErrProfileNotFound) {
				respondWithError(w, http.StatusNotFound, "Profile not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}

		respondWithSuccess(w, http.StatusOK, profile)
	}
}
