package constants

const (
	GetProfileByID       = `SELECT id, email, full_name, role, created_at, updated_at FROM profiles WHERE id = $1`
	InsertProfile        = `INSERT INTO profiles (id, email, full_name, role) VALUES ($1, $2, $3, $4)`
	GetAccountsByUserID  = `SELECT id, user_id, tiktok_user_id, username, display_name, avatar_url, is_primary, follower_count, following_count, likes_count, video_count, is_verified, created_at FROM tiktok_profiles WHERE user_id = $1 ORDER BY created_at`
	UpsertTikTokAccount  = `INSERT INTO tiktok_profiles (id, user_id, tiktok_user_id, username, display_name, avatar_url, is_primary, follower_count, following_count, likes_count, video_count, is_verified) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) ON CONFLICT (user_id, tiktok_user_id) DO UPDATE SET username = EXCLUDED.username, display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url, is_primary = EXCLUDED.is_primary, follower_count = EXCLUDED.follower_count, following_count = EXCLUDED.following_count, likes_count = EXCLUDED.likes_count, video_count = EXCLUDED.video_count, is_verified = EXCLUDED.is_verified`
	DeleteAccountsByUser = `DELETE FROM tiktok_profiles WHERE user_id = $1`
)
