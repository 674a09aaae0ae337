package gorm

import "time"

// MediaItem is a user-owned media record. There is no soft delete beyond
// the IsActive flag.
type MediaItem struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	OwnerID   string    `gorm:"type:uuid;index;not null" json:"owner_id"`
	Kind      string    `gorm:"default:video" json:"kind"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail"`
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MediaItem) TableName() string { return "video_links" }
