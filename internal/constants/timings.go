package constants

import "time"

// Scheduling and freshness windows used across the service.
const (
	// ConnectionRefreshDebounce is the minimum gap between two upstream
	// account-list fetches for the same user unless forced.
	ConnectionRefreshDebounce = 5 * time.Second

	// LeaderboardPollInterval drives both the background poller and the
	// local cache TTL for standings.
	LeaderboardPollInterval = 30 * time.Second

	// LeaderboardRequestTimeout bounds a single standings fetch.
	LeaderboardRequestTimeout = 5 * time.Second

	// SessionLifetime is the rolling session window. Staff sessions renew
	// their login timestamp on every valid check; user sessions do not.
	SessionLifetime = 7 * 24 * time.Hour

	// SessionSweepInterval is how often expired sessions are reaped.
	SessionSweepInterval = 60 * time.Second

	// ConnectPollInterval is the completion poll used by the direct
	// connect flow, which has no hard timeout.
	ConnectPollInterval = 500 * time.Millisecond

	// AuthFlowPollInterval and AuthFlowTimeout govern the modal-driven
	// authorization flows.
	AuthFlowPollInterval = 1 * time.Second
	AuthFlowTimeout      = 5 * time.Minute

	// VideoEligibilityWindow is the maximum age of a TikTok video at
	// submission time.
	VideoEligibilityWindow = 24 * time.Hour

	// ContestLifecycleInterval is how often scheduled contests are
	// activated and past-deadline contests ended.
	ContestLifecycleInterval = 1 * time.Minute
)

// MinActiveMedia is the floor on a user's active media records; deletes
// that would go below it are refused.
const MinActiveMedia = 3

// TikTokUploadURL is surfaced with stale-video rejections so the user can
// go record a fresh entry.
const TikTokUploadURL = "https://www.tiktok.com/upload"
