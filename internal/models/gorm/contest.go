package gorm

import (
	"time"

	"github.com/lib/pq"
)

// Contest statuses
const (
	ContestStatusDraft  = "draft"
	ContestStatusActive = "active"
	ContestStatusEnded  = "ended"
	ContestStatusHidden = "hidden"
)

type Contest struct {
	ID                 string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Description        string         `json:"description"`
	CoverImage         string         `json:"cover_image"`
	StartDate          time.Time      `json:"start_date"`
	EndDate            time.Time      `json:"end_date"`
	SubmissionDeadline *time.Time     `json:"submission_deadline,omitempty"`
	Status             string         `gorm:"default:draft;index" json:"status"`
	MusicCategory      string         `json:"music_category,omitempty"`
	PrizePerWinner     *float64       `json:"prize_per_winner,omitempty"`
	TotalPrize         *float64       `json:"total_prize,omitempty"`
	NumWinners         *int           `json:"num_winners,omitempty"`
	PrizeTitles        pq.StringArray `gorm:"type:text[]" json:"prize_titles"`
	Guidelines         string         `json:"guidelines,omitempty"`
	Rules              string         `json:"rules,omitempty"`
	Hashtags           pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	MaxParticipants    *int           `json:"max_participants,omitempty"`
	CreatedBy          string         `gorm:"type:uuid" json:"created_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (Contest) TableName() string { return "contests" }

// Joinable reports whether new entries are accepted right now.
func (c *Contest) Joinable(now time.Time, participants int64) bool {
	if c.Status != ContestStatusActive {
		return false
	}
	if now.After(c.EndDate) {
		return false
	}
	if c.SubmissionDeadline != nil && now.After(*c.SubmissionDeadline) {
		return false
	}
	if c.MaxParticipants != nil && participants >= int64(*c.MaxParticipants) {
		return false
	}
	return true
}
