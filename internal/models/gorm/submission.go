package gorm

import "time"

// Video types for a submission
const (
	VideoTypeTikTok = "tiktok"
	VideoTypeUpload = "upload"
)

// Submission is a contest entry referencing one externally hosted video
// and its engagement counters as last synced.
type Submission struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	ContestID      string    `gorm:"type:uuid;index;not null" json:"contest_id"`
	CreatedBy      string    `gorm:"type:uuid;index;not null" json:"created_by"`
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Thumbnail      string    `json:"thumbnail"`
	Username       string    `json:"username"`
	Views          int64     `json:"views"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	Shares         int64     `json:"shares"`
	TikTokVideoID  string    `json:"tiktok_video_id"`
	EmbedCode      string    `json:"embed_code"`
	VideoType      string    `gorm:"default:tiktok" json:"video_type"`
	SubmissionDate time.Time `gorm:"autoCreateTime" json:"submission_date"`
	Duration       int       `json:"duration"`
}

func (Submission) TableName() string { return "contest_links" }
