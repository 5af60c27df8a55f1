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

// ReviewService manages the append-only review history of cards.
type ReviewService interface {
	// Submit records a verdict and notifies the card's assignees. The
	// notifications are best effort; a failed write never fails the review.
	Submit(ctx context.Context, cardID, reviewerID uuid.UUID, status, notes string) (*models.CardReview, error)

	Get(ctx context.Context, id uuid.UUID) (*models.CardReview, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardReview, error)

	// Amend rewrites a review's verdict and notes. Only the reviewer may
	// amend, and only within models.AmendWindow of submission.
	Amend(ctx context.Context, id, actorID uuid.UUID, status, notes string) (*models.CardReview, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewService struct {
	repo          repositories.ReviewRepository
	cards         repositories.CardRepository
	assignments   repositories.AssignmentRepository
	notifications repositories.NotificationRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repositories.ReviewRepository,
	cards repositories.CardRepository,
	assignments repositories.AssignmentRepository,
	notifications repositories.NotificationRepository,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{
		repo:          repo,
		cards:         cards,
		assignments:   assignments,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *reviewService) Submit(ctx context.Context, cardID, reviewerID uuid.UUID, status, notes string) (*models.CardReview, error) {
	if !models.IsValidReviewStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}

	card, err := s.cards.Get(ctx, cardID)
	if err != nil {
		return nil, err
	}

	review := &models.CardReview{
		CardID:     cardID,
		ReviewerID: reviewerID,
		Status:     status,
		Notes:      notes,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifyAssignees(ctx, card, status)

	s.logger.Info("Submitted review",
		zap.String("review_id", review.ID.String()),
		zap.String("card_id", cardID.String()),
		zap.String("status", status),
	)
	return review, nil
}

// notifyAssignees writes a notification row per assignee. Failures are
// logged and swallowed; the review itself already committed.
func (s *reviewService) notifyAssignees(ctx context.Context, card *models.Card, verdict string) {
	assignees, err := s.assignments.ListByCard(ctx, card.ID)
	if err != nil {
		s.logger.Warn("Failed to list assignees for review notification",
			zap.String("card_id", card.ID.String()),
			zap.Error(err),
		)
		return
	}

	for _, a := range assignees {
		n := &models.Notification{
			UserID:  a.UserID,
			Type:    models.NotificationCardReviewed,
			Title:   "Card reviewed",
			Message: fmt.Sprintf("%q was %s", card.Title, verdict),
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Warn("Failed to write review notification",
				zap.String("card_id", card.ID.String()),
				zap.String("user_id", a.UserID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*models.CardReview, error) {
	return s.repo.Get(ctx, id)
}

func (s *reviewService) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardReview, error) {
	return s.repo.ListByCard(ctx, cardID)
}

func (s *reviewService) Amend(ctx context.Context, id, actorID uuid.UUID, status, notes string) (*models.CardReview, error) {
	if !models.IsValidReviewStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidStatus, status)
	}

	review, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.ReviewerID != actorID {
		return nil, apperrors.ErrForbidden
	}
	if !review.CanAmend(s.now()) {
		return nil, apperrors.ErrReviewWindowClosed
	}

	if err := s.repo.Amend(ctx, id, status, notes); err != nil {
		return nil, err
	}
	review.Status = status
	review.Notes = notes
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure reviewService implements ReviewService at compile time.
var _ ReviewService = (*reviewService)(nil)
