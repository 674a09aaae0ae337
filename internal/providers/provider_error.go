package providers

import (
	"errors"
	"fmt"

	"crown-platform/backend/internal/constants"
)

// ProviderError carries a machine-readable code alongside the upstream
// detail so callers can branch on failure class.
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the provider code from an error chain, or "".
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsNetworkError reports whether the failure was transport-level, i.e.
// the backend never produced a response. Callers preserve prior state on
// these instead of flipping to a disconnected view.
func IsNetworkError(err error) bool {
	return ErrorCode(err) == constants.ErrCodeNetworkError
}

// IsPermissionDenied reports the elevated-scope failure from the video
// listing endpoint, which has its own recovery path.
func IsPermissionDenied(err error) bool {
	return ErrorCode(err) == constants.ErrCodePermissionDenied
}
