package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/models/entities"
)

// ErrProfileNotFound distinguishes "no row" from a real database failure.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	var profile entities.Profile

	err := r.db.QueryRowxContext(ctx, constants.GetProfileByID, id).StructScan(&profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

// Create inserts a sign-up profile. Role always starts as user; promotion
// happens through privileged paths only.
func (r *ProfileRepo) Create(ctx context.Context, id, email, fullName string) error {
	_, err := r.db.ExecContext(ctx, constants.InsertProfile, id, email, fullName, constants.RoleUser.String())
	return err
}
