package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/dtos"
	"crown-platform/backend/internal/providers"
	"crown-platform/backend/internal/services"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := dtos.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	resp := dtos.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

// respondWithAppError translates domain and provider errors into a status
// code plus a stable error_code the SPA switches on.
func respondWithAppError(w http.ResponseWriter, err error) {
	code, message := classify(err)

	resp := dtos.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Error:     message,
		ErrorCode: code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusForCode(code))
	_ = json.NewEncoder(w).Encode(resp)
}

func classify(err error) (code, message string) {
	var de *services.DomainError
	if errors.As(err, &de) {
		return de.Code, de.Message
	}

	var pe *providers.ProviderError
	if errors.As(err, &pe) {
		return pe.Code, pe.Message
	}

	return "", "Internal server error"
}

func statusForCode(code string) int {
	switch code {
	case constants.ErrCodeContestNotFound, constants.ErrCodeAccountNotFound, constants.ErrCodeFlowNotFound:
		return http.StatusNotFound
	case constants.ErrCodeContestNotJoinable, constants.ErrCodeAlreadyJoined, constants.ErrCodeMinActiveMedia, constants.ErrCodeFlowBlocked:
		return http.StatusConflict
	case constants.ErrCodeVideoTooOld:
		return http.StatusUnprocessableEntity
	case constants.ErrCodeNotConnected:
		return http.StatusPreconditionFailed
	case constants.ErrCodePermissionDenied:
		return http.StatusForbidden
	case constants.ErrCodeAuthenticationFailed, constants.ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case constants.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case constants.ErrCodeFlowTimedOut:
		return http.StatusRequestTimeout
	case constants.ErrCodeNetworkError, constants.ErrCodeUpstreamError, constants.ErrCodeInvalidDataFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
