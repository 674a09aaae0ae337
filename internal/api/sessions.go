package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/db/repositories"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/models/entities"
)

// CreateSession exchanges a validated bearer token for a server-side
// session. First-time users get a profile row with the default role.
func (h *Handlers) CreateSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		if claims == nil || claims.Source() != "JWT" {
			respondWithError(w, http.StatusUnauthorized, "A bearer token is required to create a session")
			return
		}

		var req dtos.CreateSessionRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		profile, err := h.ensureProfile(r, claims)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}

		session, err := h.deps.Services.Session.CreateSession(
			r.Context(), claims.UserID(), claims.Email(), profile.Role, claims.Token(), req.ReturnURL, req.ReturnParams,
		)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to create session")
			return
		}

		respondWithSuccess(w, http.StatusCreated, &dtos.SessionResponse{
			SessionID: session.SessionID,
			Profile:   profile,
			ExpiresAt: session.ExpiresAt(),
		})
	}
}

func (h *Handlers) ensureProfile(r *http.Request, claims auth.UserClaims) (*entities.Profile, error) {
	profile, err := h.deps.Repo.Profiles.GetByID(r.Context(), claims.UserID())
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, err
	}

	if err := h.deps.Repo.Profiles.Create(r.Context(), claims.UserID(), claims.Email(), ""); err != nil {
		return nil, err
	}
	logging.Info("Profile created on first session", "user_id", claims.UserID())
	return h.deps.Repo.Profiles.GetByID(r.Context(), claims.UserID())
}

// GetSession reports the current session after the expiry policy ran.
func (h *Handlers) GetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-Id")
		if sessionID == "" {
			respondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
			return
		}

		session, expired, err := h.deps.Services.Session.CheckSessionExpiry(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, common.ErrSessionNotFound) {
				respondWithError(w, http.StatusNotFound, "Session not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to read session")
			return
		}
		if expired {
			respondWithError(w, http.StatusUnauthorized, "Session expired")
			return
		}

		respondWithSuccess(w, http.StatusOK, &dtos.SessionResponse{
			SessionID: session.SessionID,
			ExpiresAt: session.ExpiresAt(),
		})
	}
}

// MarkSessionWarning records that the expiry warning was shown, so the
// client never nags twice.
func (h *Handlers) MarkSessionWarning() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-Id")
		if sessionID == "" {
			respondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
			return
		}

		if err := h.deps.Services.Session.MarkWarningShown(r.Context(), sessionID); err != nil {
			if errors.Is(err, common.ErrSessionNotFound) {
				respondWithError(w, http.StatusNotFound, "Session not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to update session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSession signs the user out server-side.
func (h *Handlers) DeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get("X-Session-Id")
		if sessionID == "" {
			respondWithError(w, http.StatusBadRequest, "X-Session-Id header is required")
			return
		}

		if err := h.deps.Services.Session.DeleteSession(r.Context(), sessionID); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to delete session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
