package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	gormModels "crown-platform/backend/internal/models/gorm"
)

// ObjectStore uploads media bytes and returns a public URL. The S3 client
// implements it; tests use stubs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, body []byte) (string, error)
}

// MediaService manages user media records and the minimum-active-count
// rule guarding deletes.
type MediaService struct {
	db    *gorm.DB
	store ObjectStore
	bus   *common.EventBus
}

func NewMediaService(db *gorm.DB, store ObjectStore, bus *common.EventBus) *MediaService {
	return &MediaService{db: db, store: store, bus: bus}
}

// Upload stores the bytes in the bucket and records the media row.
func (svc *MediaService) Upload(ctx context.Context, ownerID, kind, contentType string, body []byte) (*gormModels.MediaItem, error) {
	if len(body) == 0 {
		return nil, &DomainError{Code: constants.ErrCodeInvalidDataFormat, Message: "empty upload"}
	}

	id := uuid.New().String()
	key := fmt.Sprintf("%s/%s/%s", kind, ownerID, id)

	url, err := svc.store.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("bucket upload failed: %w", err)
	}

	item := gormModels.MediaItem{
		ID:       id,
		OwnerID:  ownerID,
		Kind:     kind,
		URL:      url,
		IsActive: true,
	}
	if err := svc.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("media insert failed: %w", err)
	}

	if svc.bus != nil {
		svc.bus.Publish(common.Event{Topic: common.TopicVideoUpdate, UserID: ownerID, Payload: item.ID})
	}
	return &item, nil
}

// ListByOwner returns the owner's media records, active first.
func (svc *MediaService) ListByOwner(ctx context.Context, ownerID string) ([]gormModels.MediaItem, error) {
	var items []gormModels.MediaItem
	err := svc.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("is_active DESC, created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a media record, refusing whenever the owner's active
// count would drop below the floor. The check and delete run in one
// transaction so two concurrent deletes cannot both slip under it.
func (svc *MediaService) Delete(ctx context.Context, ownerID, mediaID string) error {
	return svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item gormModels.MediaItem
		err := tx.Where("id = ? AND owner_id = ?", mediaID, ownerID).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &DomainError{Code: constants.ErrCodeInvalidDataFormat, Message: "media not found"}
			}
			return err
		}

		if item.IsActive {
			var active int64
			if err := tx.Model(&gormModels.MediaItem{}).
				Where("owner_id = ? AND is_active = ?", ownerID, true).
				Count(&active).Error; err != nil {
				return err
			}
			if active <= constants.MinActiveMedia {
				return ErrMinActiveMedia
			}
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}

		logging.Info("Media deleted", "media_id", mediaID, "owner_id", ownerID)
		if svc.bus != nil {
			svc.bus.Publish(common.Event{Topic: common.TopicVideoUpdate, UserID: ownerID, Payload: mediaID})
		}
		return nil
	})
}
