package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// NotificationService lists and acknowledges stored notifications.
// Delivery beyond the stored row is a collaborator's concern.
type NotificationService interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error)

	// MarkRead acknowledges a notification. The user filter makes marking
	// someone else's notification indistinguishable from a missing one.
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// Ensure notificationService implements NotificationService at compile time.
var _ NotificationService = (*notificationService)(nil)
