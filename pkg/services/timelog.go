package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// TimeLogService records work sessions against cards and subtasks.
type TimeLogService interface {
	// Create records a session. When a subtask is given it must belong to
	// the card; duration is derived from the start/end pair once ended.
	Create(ctx context.Context, cardID uuid.UUID, subtaskID *uuid.UUID, userID uuid.UUID, startedAt time.Time, endedAt *time.Time, note string) (*models.TimeLog, error)

	Get(ctx context.Context, id uuid.UUID) (*models.TimeLog, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.TimeLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.TimeLog, error)

	// Finish closes an open session and derives its duration.
	Finish(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.TimeLog, error)

	Update(ctx context.Context, id uuid.UUID, startedAt time.Time, endedAt *time.Time, note string) (*models.TimeLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type timeLogService struct {
	repo     repositories.TimeLogRepository
	subtasks repositories.SubtaskRepository
	logger   *zap.Logger
}

// NewTimeLogService creates a new time log service.
func NewTimeLogService(repo repositories.TimeLogRepository, subtasks repositories.SubtaskRepository, logger *zap.Logger) TimeLogService {
	return &timeLogService{repo: repo, subtasks: subtasks, logger: logger}
}

func (s *timeLogService) Create(ctx context.Context, cardID uuid.UUID, subtaskID *uuid.UUID, userID uuid.UUID, startedAt time.Time, endedAt *time.Time, note string) (*models.TimeLog, error) {
	if endedAt != nil && endedAt.Before(startedAt) {
		return nil, fmt.Errorf("%w: session cannot end before it starts", apperrors.ErrInvalidInput)
	}

	// Refuse to write a row whose subtask lives under a different card;
	// such rows would never resolve for authorization.
	if subtaskID != nil {
		st, err := s.subtasks.Get(ctx, *subtaskID)
		if err != nil {
			return nil, err
		}
		if st.CardID != cardID {
			return nil, fmt.Errorf("%w: subtask %s does not belong to card %s", apperrors.ErrInvalidInput, *subtaskID, cardID)
		}
	}

	tl := &models.TimeLog{
		CardID:    cardID,
		SubtaskID: subtaskID,
		UserID:    userID,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Note:      note,
	}
	if err := s.repo.Create(ctx, tl); err != nil {
		return nil, err
	}

	s.logger.Info("Logged time",
		zap.String("timelog_id", tl.ID.String()),
		zap.String("card_id", cardID.String()),
		zap.Int("duration_minutes", tl.DurationMinutes),
	)
	return tl, nil
}

func (s *timeLogService) Get(ctx context.Context, id uuid.UUID) (*models.TimeLog, error) {
	return s.repo.Get(ctx, id)
}

func (s *timeLogService) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.TimeLog, error) {
	return s.repo.ListByCard(ctx, cardID)
}

func (s *timeLogService) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.TimeLog, error) {
	return s.repo.ListByUser(ctx, userID, from, to)
}

func (s *timeLogService) Finish(ctx context.Context, id uuid.UUID, endedAt time.Time) (*models.TimeLog, error) {
	tl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if tl.EndedAt != nil {
		return nil, fmt.Errorf("%w: session already ended", apperrors.ErrConflict)
	}
	if endedAt.Before(tl.StartedAt) {
		return nil, fmt.Errorf("%w: session cannot end before it starts", apperrors.ErrInvalidInput)
	}
	tl.EndedAt = &endedAt
	if err := s.repo.Update(ctx, tl); err != nil {
		return nil, err
	}
	return tl, nil
}

func (s *timeLogService) Update(ctx context.Context, id uuid.UUID, startedAt time.Time, endedAt *time.Time, note string) (*models.TimeLog, error) {
	if endedAt != nil && endedAt.Before(startedAt) {
		return nil, fmt.Errorf("%w: session cannot end before it starts", apperrors.ErrInvalidInput)
	}

	tl, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tl.StartedAt = startedAt
	tl.EndedAt = endedAt
	tl.Note = note
	if err := s.repo.Update(ctx, tl); err != nil {
		return nil, err
	}
	return tl, nil
}

func (s *timeLogService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure timeLogService implements TimeLogService at compile time.
var _ TimeLogService = (*timeLogService)(nil)
