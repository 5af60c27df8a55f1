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

// MembershipService manages the (project, user, role) rows that authorization
// is built on. Adding a user who is already a member overwrites their role;
// a user never holds two roles in the same project.
type MembershipService interface {
	// Add grants a user a role in a project, replacing any existing role.
	Add(ctx context.Context, projectID, userID uuid.UUID, role string) (*models.Membership, error)

	Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error)
	Remove(ctx context.Context, projectID, userID uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)
}

type membershipService struct {
	repo   repositories.MembershipRepository
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewMembershipService creates a new membership service.
func NewMembershipService(repo repositories.MembershipRepository, users repositories.UserRepository, logger *zap.Logger) MembershipService {
	return &membershipService{repo: repo, users: users, logger: logger}
}

func (s *membershipService) Add(ctx context.Context, projectID, userID uuid.UUID, role string) (*models.Membership, error) {
	if !models.IsValidProjectRole(role) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, role)
	}

	// The user must exist; the FK would catch it anyway but this gives a
	// clean not-found instead of a constraint error.
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	m := &models.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Set project membership",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role),
	)
	return m, nil
}

func (s *membershipService) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	return s.repo.Get(ctx, projectID, userID)
}

func (s *membershipService) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := s.repo.Remove(ctx, projectID, userID); err != nil {
		return err
	}
	s.logger.Info("Removed project membership",
		zap.String("project_id", projectID.String()),
		zap.String("user_id", userID.String()),
	)
	return nil
}

func (s *membershipService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Membership, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *membershipService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Ensure membershipService implements MembershipService at compile time.
var _ MembershipService = (*membershipService)(nil)
