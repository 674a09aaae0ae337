package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/auth"
	"crown-platform/backend/internal/models/dtos"
)

// CreateContest lets an organizer draft a contest.
func (h *Handlers) CreateContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		var req dtos.CreateContestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid contest payload")
			return
		}

		contest, err := h.deps.Services.Contests.Create(r.Context(), claims.UserID(), req)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, contest)
	}
}

// ListContests returns visible contests; hidden ones only via an explicit
// status filter on staff routes.
func (h *Handlers) ListContests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")

		contests, err := h.deps.Services.Contests.List(r.Context(), status)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &contests)
	}
}

// GetContest returns one contest.
func (h *Handlers) GetContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contest, err := h.deps.Services.Contests.Get(r.Context(), chi.URLParam(r, "contest_id"))
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, contest)
	}
}

// UpdateContestStatus drives admin status transitions.
func (h *Handlers) UpdateContestStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.UpdateContestStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
			respondWithError(w, http.StatusBadRequest, "status is required")
			return
		}

		contest, err := h.deps.Services.Contests.UpdateStatus(r.Context(), chi.URLParam(r, "contest_id"), req.Status)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, contest)
	}
}

// ExtendContest pushes the end date out by N days.
func (h *Handlers) ExtendContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ExtendContestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid extension payload")
			return
		}

		contest, err := h.deps.Services.Contests.Extend(r.Context(), chi.URLParam(r, "contest_id"), req.Days)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, contest)
	}
}

// ListParticipants returns the contest's participant rows for staff.
func (h *Handlers) ListParticipants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := h.deps.Services.Contests.Participants(r.Context(), chi.URLParam(r, "contest_id"))
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &participants)
	}
}
