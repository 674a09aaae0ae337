package services

import (
	"errors"
	"fmt"

	"crown-platform/backend/internal/constants"
)

// DomainError is a business-rule violation with a stable code for the API
// layer and an actionable message for the user.
type DomainError struct {
	Code    string
	Message string
	// Link, when set, points the user at the place to fix the underlying
	// condition (e.g. the TikTok upload page for a stale video).
	Link string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newDomainError(code string) *DomainError {
	return &DomainError{Code: code, Message: constants.GetErrorMessage(code)}
}

var (
	ErrContestNotFound    = newDomainError(constants.ErrCodeContestNotFound)
	ErrContestNotJoinable = newDomainError(constants.ErrCodeContestNotJoinable)
	ErrAlreadyJoined      = newDomainError(constants.ErrCodeAlreadyJoined)
	ErrNotConnected       = newDomainError(constants.ErrCodeNotConnected)
	ErrMinActiveMedia     = newDomainError(constants.ErrCodeMinActiveMedia)
)

// ErrVideoTooOld carries the upload deep link so rejection stays
// actionable rather than a dead end.
var ErrVideoTooOld = &DomainError{
	Code:    constants.ErrCodeVideoTooOld,
	Message: constants.GetErrorMessage(constants.ErrCodeVideoTooOld),
	Link:    constants.TikTokUploadURL,
}

// DomainCode extracts the domain error code from an error chain, or "".
func DomainCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
