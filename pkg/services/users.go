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

// UserService manages accounts and their global roles.
type UserService interface {
	Register(ctx context.Context, email, name, globalRole string) (*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, name, globalRole string) (*models.User, error)
}

type userService struct {
	repo   repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(repo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) Register(ctx context.Context, email, name, globalRole string) (*models.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrInvalidInput)
	}
	if globalRole == "" {
		globalRole = models.GlobalRoleMember
	}
	if !models.IsValidGlobalRole(globalRole) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, globalRole)
	}

	user := &models.User{
		Email:      email,
		Name:       name,
		GlobalRole: globalRole,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Registered user",
		zap.String("user_id", user.ID.String()),
		zap.String("global_role", globalRole),
	)
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.Get(ctx, id)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, name, globalRole string) (*models.User, error) {
	if !models.IsValidGlobalRole(globalRole) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, globalRole)
	}

	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.GlobalRole = globalRole
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Ensure userService implements UserService at compile time.
var _ UserService = (*userService)(nil)
