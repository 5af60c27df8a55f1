package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// SubtaskService manages the work items within a card.
type SubtaskService interface {
	Create(ctx context.Context, cardID uuid.UUID, title string) (*models.Subtask, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Subtask, error)
	Update(ctx context.Context, id uuid.UUID, title, status string) (*models.Subtask, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type subtaskService struct {
	repo   repositories.SubtaskRepository
	logger *zap.Logger
}

// NewSubtaskService creates a new subtask service.
func NewSubtaskService(repo repositories.SubtaskRepository, logger *zap.Logger) SubtaskService {
	return &subtaskService{repo: repo, logger: logger}
}

func (s *subtaskService) Create(ctx context.Context, cardID uuid.UUID, title string) (*models.Subtask, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: subtask title is required", apperrors.ErrInvalidInput)
	}

	subtask := &models.Subtask{
		CardID: cardID,
		Title:  title,
	}
	if err := s.repo.Create(ctx, subtask); err != nil {
		return nil, err
	}

	s.logger.Info("Created subtask",
		zap.String("subtask_id", subtask.ID.String()),
		zap.String("card_id", cardID.String()),
	)
	return subtask, nil
}

func (s *subtaskService) Get(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	return s.repo.Get(ctx, id)
}

func (s *subtaskService) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Subtask, error) {
	return s.repo.ListByCard(ctx, cardID)
}

func (s *subtaskService) Update(ctx context.Context, id uuid.UUID, title, status string) (*models.Subtask, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: subtask title is required", apperrors.ErrInvalidInput)
	}
	if !models.IsValidSubtaskStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}

	subtask, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	subtask.Title = title
	subtask.Status = status
	if err := s.repo.Update(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *subtaskService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure subtaskService implements SubtaskService at compile time.
var _ SubtaskService = (*subtaskService)(nil)
