package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"crown-platform/backend/internal/common"
	"crown-platform/backend/internal/constants"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/models/dtos"
	gormModels "crown-platform/backend/internal/models/gorm"
)

// allowedStatusTransitions encodes the admin-driven lifecycle:
// draft -> active -> ended/hidden, plus hiding or re-ending from hidden.
var allowedStatusTransitions = map[string][]string{
	gormModels.ContestStatusDraft:  {gormModels.ContestStatusActive, gormModels.ContestStatusHidden},
	gormModels.ContestStatusActive: {gormModels.ContestStatusEnded, gormModels.ContestStatusHidden},
	gormModels.ContestStatusEnded:  {gormModels.ContestStatusHidden},
	gormModels.ContestStatusHidden: {gormModels.ContestStatusActive, gormModels.ContestStatusEnded},
}

// ContestService covers contest CRUD and the admin lifecycle actions.
type ContestService struct {
	db  *gorm.DB
	bus *common.EventBus
}

func NewContestService(db *gorm.DB, bus *common.EventBus) *ContestService {
	return &ContestService{db: db, bus: bus}
}

// Create inserts a draft contest owned by the organizer.
func (svc *ContestService) Create(ctx context.Context, createdBy string, req dtos.CreateContestRequest) (*gormModels.Contest, error) {
	if req.Name == "" {
		return nil, &DomainError{Code: constants.ErrCodeInvalidDataFormat, Message: "contest name is required"}
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, &DomainError{Code: constants.ErrCodeInvalidDataFormat, Message: "end date must follow start date"}
	}

	contest := gormModels.Contest{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Description:        req.Description,
		CoverImage:         req.CoverImage,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		SubmissionDeadline: req.SubmissionDeadline,
		Status:             gormModels.ContestStatusDraft,
		MusicCategory:      req.MusicCategory,
		PrizePerWinner:     req.PrizePerWinner,
		TotalPrize:         req.TotalPrize,
		NumWinners:         req.NumWinners,
		PrizeTitles:        req.PrizeTitles,
		Guidelines:         req.Guidelines,
		Rules:              req.Rules,
		Hashtags:           req.Hashtags,
		MaxParticipants:    req.MaxParticipants,
		CreatedBy:          createdBy,
	}

	if err := svc.db.WithContext(ctx).Create(&contest).Error; err != nil {
		return nil, fmt.Errorf("contest insert failed: %w", err)
	}

	svc.notify(contest.ID)
	return &contest, nil
}

// Get returns one contest by id.
func (svc *ContestService) Get(ctx context.Context, id string) (*gormModels.Contest, error) {
	var contest gormModels.Contest
	err := svc.db.WithContext(ctx).Where("id = ?", id).First(&contest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContestNotFound
		}
		return nil, err
	}
	return &contest, nil
}

// List returns contests, optionally filtered by status. Hidden contests
// are excluded unless asked for explicitly.
func (svc *ContestService) List(ctx context.Context, status string) ([]gormModels.Contest, error) {
	q := svc.db.WithContext(ctx).Order("start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	} else {
		q = q.Where("status <> ?", gormModels.ContestStatusHidden)
	}

	var contests []gormModels.Contest
	if err := q.Find(&contests).Error; err != nil {
		return nil, err
	}
	return contests, nil
}

// UpdateStatus applies an admin transition, rejecting moves the lifecycle
// does not allow.
func (svc *ContestService) UpdateStatus(ctx context.Context, id, status string) (*gormModels.Contest, error) {
	contest, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(contest.Status, status) {
		return nil, &DomainError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("cannot move contest from %s to %s", contest.Status, status),
		}
	}

	contest.Status = status
	if err := svc.db.WithContext(ctx).Model(contest).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("status update failed: %w", err)
	}

	logging.Info("Contest status changed", "contest_id", id, "status", status)
	svc.notify(id)
	return contest, nil
}

// Extend pushes the end date out by N days.
func (svc *ContestService) Extend(ctx context.Context, id string, days int) (*gormModels.Contest, error) {
	if days < 1 {
		return nil, &DomainError{Code: constants.ErrCodeInvalidDataFormat, Message: "extension must be at least one day"}
	}

	contest, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	contest.EndDate = contest.EndDate.Add(time.Duration(days) * 24 * time.Hour)
	if err := svc.db.WithContext(ctx).Model(contest).Update("end_date", contest.EndDate).Error; err != nil {
		return nil, fmt.Errorf("extend failed: %w", err)
	}

	logging.Info("Contest extended", "contest_id", id, "days", days)
	svc.notify(id)
	return contest, nil
}

// Participants lists the join records for a contest.
func (svc *ContestService) Participants(ctx context.Context, contestID string) ([]gormModels.ContestParticipant, error) {
	var participants []gormModels.ContestParticipant
	err := svc.db.WithContext(ctx).
		Where("contest_id = ?", contestID).
		Order("joined_at").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// RunLifecycle activates contests whose start date has arrived and ends
// those past their end date. Called by the scheduler once a minute.
func (svc *ContestService) RunLifecycle(ctx context.Context, now time.Time) error {
	activated := svc.db.WithContext(ctx).Model(&gormModels.Contest{}).
		Where("status = ? AND start_date <= ?", gormModels.ContestStatusDraft, now).
		Where("end_date > ?", now).
		Update("status", gormModels.ContestStatusActive)
	if activated.Error != nil {
		return fmt.Errorf("lifecycle activation failed: %w", activated.Error)
	}

	ended := svc.db.WithContext(ctx).Model(&gormModels.Contest{}).
		Where("status = ? AND end_date <= ?", gormModels.ContestStatusActive, now).
		Update("status", gormModels.ContestStatusEnded)
	if ended.Error != nil {
		return fmt.Errorf("lifecycle ending failed: %w", ended.Error)
	}

	if activated.RowsAffected > 0 || ended.RowsAffected > 0 {
		logging.Info("Contest lifecycle pass",
			"activated", activated.RowsAffected,
			"ended", ended.RowsAffected,
		)
		svc.notify("")
	}
	return nil
}

// ActiveContestIDs feeds the leaderboard poller.
func (svc *ContestService) ActiveContestIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := svc.db.WithContext(ctx).Model(&gormModels.Contest{}).
		Where("status = ?", gormModels.ContestStatusActive).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (svc *ContestService) notify(contestID string) {
	if svc.bus != nil {
		svc.bus.Publish(common.Event{Topic: common.TopicContestUpdate, Payload: contestID})
	}
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
