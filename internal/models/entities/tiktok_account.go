package entities

import "time"

// TikTokAccount is a linked TikTok identity. A user may link several; the
// backend guarantees at most one carries IsPrimary per user.
type TikTokAccount struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"-"`
	TikTokUserID   string    `db:"tiktok_user_id" json:"tiktok_user_id"`
	Username       string    `db:"username" json:"username"`
	DisplayName    string    `db:"display_name" json:"display_name"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	IsPrimary      bool      `db:"is_primary" json:"is_primary"`
	FollowerCount  int64     `db:"follower_count" json:"follower_count"`
	FollowingCount int64     `db:"following_count" json:"following_count"`
	LikesCount     int64     `db:"likes_count" json:"likes_count"`
	VideoCount     int64     `db:"video_count" json:"video_count"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
