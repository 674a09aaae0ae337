package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"crown-platform/backend/internal/auth"
)

// 50 MB request cap for uploaded media.
const maxUploadBytes = 50 << 20

// UploadMedia stores one multipart file in the bucket and records it.
func (h *Handlers) UploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid multipart payload")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		body, err := io.ReadAll(file)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Failed to read upload")
			return
		}

		kind := r.FormValue("kind")
		if kind == "" {
			kind = "video"
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		item, err := h.deps.Services.Media.Upload(r.Context(), claims.UserID(), kind, contentType, body)
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusCreated, item)
	}
}

// ListMedia returns the caller's media records.
func (h *Handlers) ListMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		items, err := h.deps.Services.Media.ListByOwner(r.Context(), claims.UserID())
		if err != nil {
			respondWithAppError(w, err)
			return
		}

		respondWithSuccess(w, http.StatusOK, &items)
	}
}

// DeleteMedia removes one media record, subject to the minimum active
// floor.
func (h *Handlers) DeleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.GetUserClaims(r.Context())

		if err := h.deps.Services.Media.Delete(r.Context(), claims.UserID(), chi.URLParam(r, "media_id")); err != nil {
			respondWithAppError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
