package dtos

import (
	"encoding/json"
	"time"

	"crown-platform/backend/internal/models/entities"
)

// APIResponse is the envelope every route answers with.
type APIResponse[T any] struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
	Data      *T        `json:"data,omitempty"`
}

// AuthInitiateResponse carries the authorization URL the client must open.
type AuthInitiateResponse struct {
	AuthURL string `json:"auth_url"`
	FlowID  string `json:"flow_id,omitempty"`
}

// AccountsEnvelope is the engagement backend's account listing shape.
type AccountsEnvelope struct {
	Data struct {
		Accounts []entities.TikTokAccount `json:"accounts"`
	} `json:"data"`
}

// Video is a TikTok video as reported by the engagement backend.
// CreateTime is epoch seconds from the platform.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	CoverImage   string `json:"cover_image_url"`
	CreateTime   int64  `json:"create_time"`
	Duration     int    `json:"duration"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	ShareCount   int64  `json:"share_count"`
}

// VideosEnvelope handles both nesting shapes the backend is known to
// return: {"data":{"videos":[...]}} and {"data":[...]}.
type VideosEnvelope struct {
	Status string  `json:"status"`
	Videos []Video `json:"-"`
}

func (v *VideosEnvelope) UnmarshalJSON(b []byte) error {
	var outer struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &outer); err != nil {
		return err
	}
	v.Status = outer.Status
	v.Videos = nil

	if len(outer.Data) == 0 {
		return nil
	}

	var nested struct {
		Videos []Video `json:"videos"`
	}
	if err := json.Unmarshal(outer.Data, &nested); err == nil {
		v.Videos = nested.Videos
		return nil
	}

	var flat []Video
	if err := json.Unmarshal(outer.Data, &flat); err != nil {
		return err
	}
	v.Videos = flat
	return nil
}

// ErrorBody is the engagement backend's error payload.
type ErrorBody struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// LeaderboardEntry is one externally ranked standing. Rank is owned by
// the backend; this service never recomputes it.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	VideoID        string    `json:"video_id"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	SubmissionDate time.Time `json:"submission_date"`
}

// LeaderboardEnvelope is the backend's standings shape.
type LeaderboardEnvelope struct {
	Data struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	} `json:"data"`
}

// VideoOption is a listed video tagged with join-flow eligibility.
type VideoOption struct {
	Video
	Eligible  bool   `json:"eligible"`
	UploadURL string `json:"upload_url,omitempty"`
}

// SessionResponse is returned on session create/read.
type SessionResponse struct {
	SessionID string            `json:"session_id"`
	Profile   *entities.Profile `json:"profile,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// JoinResponse reports the outcome of a completed join flow.
type JoinResponse struct {
	ContestID     string `json:"contest_id"`
	SubmissionID  string `json:"submission_id,omitempty"`
	AlreadyJoined bool   `json:"already_joined"`
}
