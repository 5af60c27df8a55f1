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

// AssignmentService manages who is working each card.
type AssignmentService interface {
	// Assign puts a user on a card. A user can be assigned to a card at
	// most once.
	Assign(ctx context.Context, cardID, userID uuid.UUID) (*models.CardAssignment, error)

	Get(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardAssignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.CardAssignment, error)
	Unassign(ctx context.Context, id uuid.UUID) error
}

type assignmentService struct {
	repo          repositories.AssignmentRepository
	cards         repositories.CardRepository
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(
	repo repositories.AssignmentRepository,
	cards repositories.CardRepository,
	notifications repositories.NotificationRepository,
	logger *zap.Logger,
) AssignmentService {
	return &assignmentService{
		repo:          repo,
		cards:         cards,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *assignmentService) Assign(ctx context.Context, cardID, userID uuid.UUID) (*models.CardAssignment, error) {
	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	a := &models.CardAssignment{
		CardID: cardID,
		UserID: userID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	// Best effort: the assignment stands whether or not the notification
	// row could be written.
	n := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationCardAssigned,
		Title:   "Card assigned",
		Message: fmt.Sprintf("You were assigned to %q", card.Title),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("Failed to write assignment notification",
			zap.String("card_id", cardID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("Assigned card",
		zap.String("card_id", cardID.String()),
		zap.String("user_id", userID.String()),
	)
	return a, nil
}

func (s *assignmentService) Get(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error) {
	return s.repo.Get(ctx, id)
}

func (s *assignmentService) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardAssignment, error) {
	return s.repo.ListByCard(ctx, cardID)
}

func (s *assignmentService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.CardAssignment, error) {
	if !models.IsValidAssignmentStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *assignmentService) Unassign(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure assignmentService implements AssignmentService at compile time.
var _ AssignmentService = (*assignmentService)(nil)
