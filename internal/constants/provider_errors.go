package constants

// Engagement API Error Codes
// These constants define specific error scenarios for the external
// engagement backend (TikTok account + leaderboard API).

// Credential-related errors
const (
	ErrCodeInvalidToken         = "INVALID_TOKEN"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeNetworkError         = "NETWORK_ERROR"
	ErrCodeUpstreamError        = "UPSTREAM_ERROR"
)

// TikTok account errors
const (
	ErrCodePermissionDenied  = "PERMISSION_DENIED"
	ErrCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	ErrCodeNoPrimaryAccount  = "NO_PRIMARY_ACCOUNT"
	ErrCodeFlowNotFound      = "FLOW_NOT_FOUND"
	ErrCodeFlowBlocked       = "FLOW_BLOCKED"
	ErrCodeFlowTimedOut      = "FLOW_TIMED_OUT"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

// Contest and submission errors
const (
	ErrCodeContestNotFound    = "CONTEST_NOT_FOUND"
	ErrCodeContestNotJoinable = "CONTEST_NOT_JOINABLE"
	ErrCodeAlreadyJoined      = "ALREADY_JOINED"
	ErrCodeVideoTooOld        = "VIDEO_TOO_OLD"
	ErrCodeNotConnected       = "NOT_CONNECTED"
	ErrCodeMinActiveMedia     = "MIN_ACTIVE_MEDIA"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ErrorMessages = map[string]string{
	ErrCodeInvalidToken:         "The session token is invalid or has expired",
	ErrCodeAuthenticationFailed: "Authentication with the engagement backend failed",
	ErrCodeRateLimited:          "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:         "Unable to reach the engagement backend",
	ErrCodeUpstreamError:        "The engagement backend returned an error",

	ErrCodePermissionDenied:  "TikTok video permissions are missing. Reconnect with video permissions",
	ErrCodeAccountNotFound:   "The TikTok account was not found",
	ErrCodeNoPrimaryAccount:  "No primary TikTok account is set",
	ErrCodeFlowNotFound:      "The authorization flow was not found or already finished",
	ErrCodeFlowBlocked:       "The authorization flow could not be opened",
	ErrCodeFlowTimedOut:      "Authorization timed out. Please try again",
	ErrCodeInvalidDataFormat: "The engagement backend returned an unexpected payload",

	ErrCodeContestNotFound:    "Contest not found",
	ErrCodeContestNotJoinable: "This contest is not accepting entries",
	ErrCodeAlreadyJoined:      "You have already joined this contest",
	ErrCodeVideoTooOld:        "The selected video is older than 24 hours. Upload a fresh one",
	ErrCodeNotConnected:       "Connect a TikTok account before joining",
	ErrCodeMinActiveMedia:     "At least 3 active videos must remain",
}

// GetErrorMessage returns the human-readable message for a code, or the
// code itself when no mapping exists.
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return code
}
