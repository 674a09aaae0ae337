package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	gormModels "crown-platform/backend/internal/models/gorm"
	"crown-platform/backend/internal/providers"
)

// JoinPreview is the first wizard step: the contest, whether the user is
// already in, and their videos tagged with eligibility.
type JoinPreview struct {
	Contest       *gormModels.Contest `json:"contest"`
	AlreadyJoined bool                `json:"already_joined"`
	Videos        []dtos.VideoOption  `json:"videos"`
}

// JoinService enforces the submission business rules: the 24-hour video
// window and exactly-once participation per (contest, user).
type JoinService struct {
	db          *gorm.DB
	api         providers.EngagementAPI
	connections *ConnectionService
	bus         *common.EventBus
	now         func() time.Time
}

func NewJoinService(db *gorm.DB, api providers.EngagementAPI, connections *ConnectionService, bus *common.EventBus) *JoinService {
	return &JoinService{
		db:          db,
		api:         api,
		connections: connections,
		bus:         bus,
		now:         time.Now,
	}
}

// VideoEligible applies the 24-hour rule against the platform-reported
// creation time. It is evaluated at listing time AND again at submit
// time; the clock keeps running between the two.
func (svc *JoinService) VideoEligible(video dtos.Video) bool {
	return svc.now().Unix()-video.CreateTime < int64(constants.VideoEligibilityWindow/time.Second)
}

// StartJoin runs the join step: validates the contest accepts entries,
// requires a TikTok connection, treats a missing participant row as the
// happy path, and lists the user's videos with eligibility tags.
func (svc *JoinService) StartJoin(ctx context.Context, userID, token, contestID string) (*JoinPreview, error) {
	contest, err := svc.joinableContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	state, err := svc.connections.RefreshConnection(ctx, userID, token, false)
	if err != nil && !providers.IsNetworkError(err) {
		return nil, err
	}
	if !state.Connected() {
		return nil, ErrNotConnected
	}

	preview := &JoinPreview{Contest: contest}

	var participant gormModels.ContestParticipant
	err = svc.db.WithContext(ctx).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		First(&participant).Error
	if err == nil {
		preview.AlreadyJoined = true
		return preview, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("participant lookup failed: %w", err)
	}

	videos, err := svc.listVideoOptions(ctx, token)
	if err != nil {
		return nil, err
	}
	preview.Videos = videos
	return preview, nil
}

// SubmitEntry finalizes the flow: re-validates the video window against a
// fresh listing, then writes the participant and submission rows in one
// transaction. A duplicate participant maps to "already joined" rather
// than a hard failure, which also makes a double-click safe.
func (svc *JoinService) SubmitEntry(ctx context.Context, userID, token, contestID, videoID string) (*dtos.JoinResponse, error) {
	if _, err := svc.joinableContest(ctx, contestID); err != nil {
		return nil, err
	}

	state, err := svc.connections.RefreshConnection(ctx, userID, token, false)
	if err != nil && !providers.IsNetworkError(err) {
		return nil, err
	}
	if !state.Connected() || state.Primary == nil {
		return nil, ErrNotConnected
	}
	username := state.Primary.Username

	// Fresh listing: selection-time eligibility is not trusted here.
	videos, _, err := svc.api.ListVideos(ctx, token)
	if err != nil {
		return nil, err
	}

	var selected *dtos.Video
	for i := range videos {
		if videos[i].ID == videoID {
			selected = &videos[i]
			break
		}
	}
	if selected == nil {
		return nil, &DomainError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "The selected video is no longer available",
		}
	}
	if !svc.VideoEligible(*selected) {
		return nil, ErrVideoTooOld
	}

	videoURL := CanonicalVideoURL(username, selected.ID)
	submission := gormModels.Submission{
		ID:            uuid.New().String(),
		ContestID:     contestID,
		CreatedBy:     userID,
		URL:           videoURL,
		Title:         selected.Title,
		Thumbnail:     selected.CoverImage,
		Username:      username,
		Views:         selected.ViewCount,
		Likes:         selected.LikeCount,
		Comments:      selected.CommentCount,
		Shares:        selected.ShareCount,
		TikTokVideoID: selected.ID,
		EmbedCode:     EmbedSnippet(videoURL, selected.ID),
		VideoType:     gormModels.VideoTypeTikTok,
		Duration:      selected.Duration,
	}

	err = svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		participant := gormModels.ContestParticipant{
			ContestID: contestID,
			UserID:    userID,
			IsActive:  true,
		}
		if err := tx.Create(&participant).Error; err != nil {
			return err
		}
		return tx.Create(&submission).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			logging.Info("Duplicate join treated as already joined", "contest_id", contestID, "user_id", userID)
			return &dtos.JoinResponse{ContestID: contestID, AlreadyJoined: true}, nil
		}
		return nil, fmt.Errorf("join transaction failed: %w", err)
	}

	if svc.bus != nil {
		svc.bus.Publish(common.Event{Topic: common.TopicVideoUpdate, UserID: userID, Payload: submission.ID})
		svc.bus.Publish(common.Event{Topic: common.TopicContestUpdate, Payload: contestID})
	}

	return &dtos.JoinResponse{ContestID: contestID, SubmissionID: submission.ID}, nil
}

func (svc *JoinService) joinableContest(ctx context.Context, contestID string) (*gormModels.Contest, error) {
	var contest gormModels.Contest
	err := svc.db.WithContext(ctx).Where("id = ?", contestID).First(&contest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, fmt.Errorf("contest lookup failed: %w", err)
	}

	var participants int64
	if err := svc.db.WithContext(ctx).Model(&gormModels.ContestParticipant{}).
		Where("contest_id = ?", contestID).Count(&participants).Error; err != nil {
		return nil, fmt.Errorf("participant count failed: %w", err)
	}

	if !contest.Joinable(svc.now(), participants) {
		return nil, ErrContestNotJoinable
	}
	return &contest, nil
}

func (svc *JoinService) listVideoOptions(ctx context.Context, token string) ([]dtos.VideoOption, error) {
	videos, _, err := svc.api.ListVideos(ctx, token)
	if err != nil {
		// PERMISSION_DENIED passes through untouched so the handler can
		// offer the reconnect-with-video-permissions recovery.
		return nil, err
	}

	options := make([]dtos.VideoOption, 0, len(videos))
	for _, v := range videos {
		opt := dtos.VideoOption{Video: v, Eligible: svc.VideoEligible(v)}
		if !opt.Eligible {
			opt.UploadURL = constants.TikTokUploadURL
		}
		options = append(options, opt)
	}
	return options, nil
}

// CanonicalVideoURL builds the public TikTok URL for a submission.
func CanonicalVideoURL(username, videoID string) string {
	return fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", username, videoID)
}

// EmbedSnippet builds the embeddable player markup stored alongside a
// submission.
func EmbedSnippet(videoURL, videoID string) string {
	return fmt.Sprintf(
		`<blockquote class="tiktok-embed" cite="%s" data-video-id="%s"><section></section></blockquote><script async src="https://www.tiktok.com/embed.js"></script>`,
		videoURL, videoID)
}

// isUniqueViolation detects a duplicate (contest, user) pair across both
// the translated gorm error and the raw Postgres code.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
