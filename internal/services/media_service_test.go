package services

import (
	"context"
	"fmt"
	"testing"

	"crown-platform/backend/internal/constants"
	gormModels "crown-platform/backend/internal/models/gorm"
)

type fakeStore struct {
	uploads int
	fail    bool
}

func (f *fakeStore) Upload(ctx context.Context, key string, contentType string, body []byte) (string, error) {
	if f.fail {
		return "", fmt.Errorf("bucket unavailable")
	}
	f.uploads++
	return "https://cdn.example.com/" + key, nil
}

func seedMedia(t *testing.T, svc *MediaService, owner string, n int) []*gormModels.MediaItem {
	t.Helper()
	items := make([]*gormModels.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		item, err := svc.Upload(context.Background(), owner, "video", "video/mp4", []byte{1, 2, 3})
		if err != nil {
			t.Fatalf("Seed upload failed: %v", err)
		}
		items = append(items, item)
	}
	return items
}

func TestMediaService_UploadRecordsRow(t *testing.T) {
	db := setupTestDB(t)
	store := &fakeStore{}
	svc := NewMediaService(db, store, nil)

	item, err := svc.Upload(context.Background(), "user-1", "video", "video/mp4", []byte{1})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !item.IsActive {
		t.Error("New media must start active")
	}
	if item.URL == "" {
		t.Error("Expected a public URL")
	}
	if store.uploads != 1 {
		t.Errorf("Expected 1 bucket upload, got %d", store.uploads)
	}
}

func TestMediaService_UploadFailureWritesNoRow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMediaService(db, &fakeStore{fail: true}, nil)

	if _, err := svc.Upload(context.Background(), "user-1", "video", "video/mp4", []byte{1}); err == nil {
		t.Fatal("Expected bucket failure to surface")
	}

	var count int64
	db.Model(&gormModels.MediaItem{}).Count(&count)
	if count != 0 {
		t.Errorf("No media row may exist after a failed upload, got %d", count)
	}
}

func TestMediaService_DeleteRefusedBelowFloor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMediaService(db, &fakeStore{}, nil)
	items := seedMedia(t, svc, "user-1", 3)

	err := svc.Delete(context.Background(), "user-1", items[0].ID)
	if DomainCode(err) != constants.ErrCodeMinActiveMedia {
		t.Fatalf("Expected MIN_ACTIVE_MEDIA, got %v", err)
	}

	var count int64
	db.Model(&gormModels.MediaItem{}).Where("owner_id = ?", "user-1").Count(&count)
	if count != 3 {
		t.Errorf("Refused delete must leave all rows, got %d", count)
	}
}

func TestMediaService_DeleteAllowedAboveFloor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMediaService(db, &fakeStore{}, nil)
	items := seedMedia(t, svc, "user-1", 4)

	if err := svc.Delete(context.Background(), "user-1", items[0].ID); err != nil {
		t.Fatalf("Delete above the floor must succeed: %v", err)
	}

	// Now at the floor; the next delete is refused.
	err := svc.Delete(context.Background(), "user-1", items[1].ID)
	if DomainCode(err) != constants.ErrCodeMinActiveMedia {
		t.Errorf("Expected MIN_ACTIVE_MEDIA at the floor, got %v", err)
	}
}

func TestMediaService_DeleteScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewMediaService(db, &fakeStore{}, nil)
	items := seedMedia(t, svc, "user-1", 4)

	if err := svc.Delete(context.Background(), "someone-else", items[0].ID); err == nil {
		t.Error("Deleting another user's media must fail")
	}
}
