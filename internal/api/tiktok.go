package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
	"crown-platform/backend/internal/services"
)

// GetConnection returns the user's connection state, refreshing it unless
// a fetch already ran inside the debounce window.
func (h *Handlers) GetConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		state, err := h.deps.Services.Connections.RefreshConnection(r.Context(), claims.UserID(), claims.Token(), false)
		h.countRefresh(err)
		if state == nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

// RefreshConnection forces a fetch past the debounce window. The SPA
// calls this right after an authorization flow lands.
func (h *Handlers) RefreshConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		state, err := h.deps.Services.Connections.RefreshConnection(r.Context(), claims.UserID(), claims.Token(), true)
		h.countRefresh(err)
		if state == nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

func (h *Handlers) countRefresh(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if code := providers.ErrorCode(err); code != "" {
			h.deps.Metrics.UpstreamErrors.WithLabelValues(code).Inc()
		}
	}
	h.deps.Metrics.ConnectionRefreshes.WithLabelValues(outcome).Inc()
}

// InitiateAuthFlow starts a TikTok authorization flow and hands back the
// URL the client must open in a new window.
func (h *Handlers) InitiateAuthFlow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		var req dtos.AuthInitiateRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		handle, err := h.deps.Services.AuthFlow.Initiate(r.Context(), claims.Token(), req)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, handle)
	}
}

type flowOutcomeResponse struct {
	FlowID  string               `json:"flow_id"`
	Outcome services.FlowOutcome `json:"outcome"`
}

// AwaitAuthFlow blocks until the authorization lands, the 5-minute budget
// runs out, or the client gives up. Completion is observed by forcing
// connection refreshes.
func (h *Handlers) AwaitAuthFlow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		flowID := chi.URLParam(r, "flow_id")

		handle := &services.FlowHandle{ID: flowID}
		check := func(ctx context.Context) (bool, error) {
			state, err := h.deps.Services.Connections.RefreshConnection(ctx, claims.UserID(), claims.Token(), true)
			if err != nil {
				return false, err
			}
			return state.Connected(), nil
		}

		// The outcome is the result, not an error condition; a timeout
		// resolves to timed_out rather than a failure response.
		outcome, _ := h.deps.Services.AuthFlow.AwaitCompletion(r.Context(), handle, check)

		respondWithSuccess(w, http.StatusOK, &flowOutcomeResponse{FlowID: flowID, Outcome: outcome})
	}
}

// ConnectWithVideoPermissions starts the reconnect variant used when the
// backend reports missing video scopes.
func (h *Handlers) ConnectWithVideoPermissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		resp, err := h.deps.Services.Connections.ConnectWithVideoPermissions(r.Context(), claims.UserID(), claims.Token())
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, resp)
	}
}

// AwaitConnection blocks until the pending connect lands, polling the
// backend every 500ms. Unlike the flow await there is no hard timeout;
// the request context bounds the wait, and cancellation returns the
// latest observed state.
func (h *Handlers) AwaitConnection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		state, err := h.deps.Services.Connections.AwaitConnected(r.Context(), claims.UserID(), claims.Token())
		if state == nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

// SetPrimaryAccount switches which linked account is primary.
func (h *Handlers) SetPrimaryAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		var req dtos.SetPrimaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
			respondWithError(w, http.StatusBadRequest, "accountId is required")
			return
		}

		state, err := h.deps.Services.Connections.SetPrimaryAccount(r.Context(), claims.UserID(), claims.Token(), req.AccountID)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

// DeleteAccount unlinks one account.
func (h *Handlers) DeleteAccount() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())
		accountID := chi.URLParam(r, "account_id")

		state, err := h.deps.Services.Connections.DeleteAccount(r.Context(), claims.UserID(), claims.Token(), accountID)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

// Disconnect unlinks every account and resets local state immediately.
func (h *Handlers) Disconnect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		state, err := h.deps.Services.Connections.DisconnectAll(r.Context(), claims.UserID(), claims.Token())
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, state)
	}
}

// ListVideos returns the user's TikTok videos. A PERMISSION_DENIED from
// upstream surfaces as 403 with its code so the SPA can offer the
// video-permission reconnect.
func (h *Handlers) ListVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		videos, _, err := h.deps.Services.Engagement.ListVideos(r.Context(), claims.Token())
		if err != nil {
			if code := providers.ErrorCode(err); code != "" {
				h.deps.Metrics.UpstreamErrors.WithLabelValues(code).Inc()
			}
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &videos)
	}
}
