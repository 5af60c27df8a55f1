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

// CardInput carries the caller-settable card fields. Zero-value Status and
// Priority fall back to the repository defaults on create and are rejected
// on update.
type CardInput struct {
	Title          string
	Description    string
	Status         string
	Priority       string
	DueDate        *time.Time
	EstimatedHours float64
	ActualHours    float64
}

// CardService manages cards on boards.
type CardService interface {
	Create(ctx context.Context, boardID uuid.UUID, in CardInput, createdBy uuid.UUID) (*models.Card, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Card, error)
	Update(ctx context.Context, id uuid.UUID, in CardInput) (*models.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cardService struct {
	repo   repositories.CardRepository
	logger *zap.Logger
}

// NewCardService creates a new card service.
func NewCardService(repo repositories.CardRepository, logger *zap.Logger) CardService {
	return &cardService{repo: repo, logger: logger}
}

func (s *cardService) Create(ctx context.Context, boardID uuid.UUID, in CardInput, createdBy uuid.UUID) (*models.Card, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: card title is required", apperrors.ErrInvalidInput)
	}
	if in.Status != "" && !models.IsValidCardStatus(in.Status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, in.Status)
	}
	if in.Priority != "" && !models.IsValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: priority %q", apperrors.ErrInvalidStatus, in.Priority)
	}

	card := &models.Card{
		BoardID:        boardID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         in.Status,
		Priority:       in.Priority,
		DueDate:        in.DueDate,
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
		CreatedBy:      createdBy,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, err
	}

	s.logger.Info("Created card",
		zap.String("card_id", card.ID.String()),
		zap.String("board_id", boardID.String()),
	)
	return card, nil
}

func (s *cardService) Get(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	return s.repo.Get(ctx, id)
}

func (s *cardService) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Card, error) {
	return s.repo.ListByBoard(ctx, boardID)
}

func (s *cardService) Update(ctx context.Context, id uuid.UUID, in CardInput) (*models.Card, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: card title is required", apperrors.ErrInvalidInput)
	}
	if !models.IsValidCardStatus(in.Status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, in.Status)
	}
	if !models.IsValidPriority(in.Priority) {
		return nil, fmt.Errorf("%w: priority %q", apperrors.ErrInvalidStatus, in.Priority)
	}

	card, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	card.Title = in.Title
	card.Description = in.Description
	card.Status = in.Status
	card.Priority = in.Priority
	card.DueDate = in.DueDate
	card.EstimatedHours = in.EstimatedHours
	card.ActualHours = in.ActualHours

	if err := s.repo.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *cardService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure cardService implements CardService at compile time.
var _ CardService = (*cardService)(nil)
