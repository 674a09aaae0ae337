package gorm

import "time"

// ContestParticipant is created exactly once per (contest, user); the
// unique index makes a duplicate join a detectable constraint violation.
type ContestParticipant struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ContestID string    `gorm:"type:uuid;uniqueIndex:idx_contest_user;not null" json:"contest_id"`
	UserID    string    `gorm:"type:uuid;uniqueIndex:idx_contest_user;not null" json:"user_id"`
	JoinedAt  time.Time `gorm:"autoCreateTime" json:"joined_at"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
}

func (ContestParticipant) TableName() string { return "contest_participants" }
