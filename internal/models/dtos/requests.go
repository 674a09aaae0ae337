package dtos

import "time"

// AuthInitiateRequest is posted to the engagement backend to start a
// TikTok authorization flow.
type AuthInitiateRequest struct {
	ForceAccountSelection     bool `json:"force_account_selection,omitempty"`
	EmphasizeVideoPermissions bool `json:"emphasize_video_permissions,omitempty"`
}

// SetPrimaryRequest marks one linked account as primary.
type SetPrimaryRequest struct {
	AccountID string `json:"accountId"`
}

// CreateContestRequest is the organizer-facing contest payload.
type CreateContestRequest struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	CoverImage         string     `json:"cover_image"`
	StartDate          time.Time  `json:"start_date"`
	EndDate            time.Time  `json:"end_date"`
	SubmissionDeadline *time.Time `json:"submission_deadline,omitempty"`
	MusicCategory      string     `json:"music_category,omitempty"`
	PrizePerWinner     *float64   `json:"prize_per_winner,omitempty"`
	TotalPrize         *float64   `json:"total_prize,omitempty"`
	NumWinners         *int       `json:"num_winners,omitempty"`
	PrizeTitles        []string   `json:"prize_titles,omitempty"`
	Guidelines         string     `json:"guidelines,omitempty"`
	Rules              string     `json:"rules,omitempty"`
	Hashtags           []string   `json:"hashtags,omitempty"`
	MaxParticipants    *int       `json:"max_participants,omitempty"`
}

// UpdateContestStatusRequest drives admin status transitions.
type UpdateContestStatusRequest struct {
	Status string `json:"status"`
}

// ExtendContestRequest adds N days to a contest's end date.
type ExtendContestRequest struct {
	Days int `json:"days"`
}

// SubmitEntryRequest finalizes the join flow with a selected video.
type SubmitEntryRequest struct {
	VideoID string `json:"video_id"`
}

// CreateSessionRequest exchanges a hosted-auth bearer token for a session.
type CreateSessionRequest struct {
	ReturnURL    string `json:"return_url,omitempty"`
	ReturnParams string `json:"return_params,omitempty"`
}
