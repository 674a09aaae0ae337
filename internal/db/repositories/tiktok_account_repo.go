package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/entities"
)

// TikTokAccountRepo mirrors the backend's view of linked accounts into the
// tiktok_profiles table so profile pages can render without an upstream
// round trip.
type TikTokAccountRepo struct {
	db *sqlx.DB
}

func NewTikTokAccountRepo(db *sqlx.DB) *TikTokAccountRepo {
	return &TikTokAccountRepo{db}
}

func (r *TikTokAccountRepo) ListByUser(ctx context.Context, userID string) ([]entities.TikTokAccount, error) {
	var accounts []entities.TikTokAccount
	if err := r.db.SelectContext(ctx, &accounts, constants.GetAccountsByUserID, userID); err != nil {
		return nil, err
	}
	return accounts, nil
}

// SyncForUser replaces the stored snapshot with the accounts the backend
// just reported.
func (r *TikTokAccountRepo) SyncForUser(ctx context.Context, userID string, accounts []entities.TikTokAccount) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, constants.DeleteAccountsByUser, userID); err != nil {
		return err
	}

	for _, acc := range accounts {
		id := acc.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, constants.UpsertTikTokAccount,
			id, userID, acc.TikTokUserID, acc.Username, acc.DisplayName, acc.AvatarURL,
			acc.IsPrimary, acc.FollowerCount, acc.FollowingCount, acc.LikesCount,
			acc.VideoCount, acc.IsVerified)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}
