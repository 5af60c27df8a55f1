// Package services contains the business logic for taskhive-engine.
// Services validate input, own workflow rules and delegate persistence to
// repositories; authorization happens in the handlers before any service
// call.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
	"github.com/taskhive-io/taskhive-engine/pkg/slug"
)

// maxSlugAttempts bounds the collision retry loop: the base slug plus
// numbered suffixes -1 through -(maxSlugAttempts-1).
const maxSlugAttempts = 50

// ProjectService manages projects and their URL slugs.
type ProjectService interface {
	// Create makes a project, deriving a unique slug from the name.
	Create(ctx context.Context, name, description string, deadline *time.Time, createdBy uuid.UUID) (*models.Project, error)

	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, s string) (*models.Project, error)

	// List returns every project, or only the actor's projects when a
	// member id is given.
	List(ctx context.Context, memberID *uuid.UUID) ([]*models.Project, error)

	// Update writes name, description and deadline. A changed name gets a
	// fresh slug; an unchanged name keeps the existing one.
	Update(ctx context.Context, id uuid.UUID, name, description string, deadline *time.Time) (*models.Project, error)

	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	repo   repositories.ProjectRepository
	logger *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(repo repositories.ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

func (s *projectService) Create(ctx context.Context, name, description string, deadline *time.Time, createdBy uuid.UUID) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrInvalidInput)
	}

	project := &models.Project{
		Name:        name,
		Description: description,
		Deadline:    deadline,
		CreatedBy:   createdBy,
	}

	base := slug.Make(name)
	if err := s.withUniqueSlug(base, func(candidate string) error {
		project.Slug = candidate
		return s.repo.Create(ctx, project)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Created project",
		zap.String("project_id", project.ID.String()),
		zap.String("slug", project.Slug),
	)
	return project, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.Get(ctx, id)
}

func (s *projectService) GetBySlug(ctx context.Context, sl string) (*models.Project, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *projectService) List(ctx context.Context, memberID *uuid.UUID) ([]*models.Project, error) {
	if memberID != nil {
		return s.repo.ListByMember(ctx, *memberID)
	}
	return s.repo.List(ctx)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, name, description string, deadline *time.Time) (*models.Project, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", apperrors.ErrInvalidInput)
	}

	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	renamed := project.Name != name
	project.Name = name
	project.Description = description
	project.Deadline = deadline

	if !renamed {
		// Same name keeps the same slug, so repeated saves never drift
		// to a numbered suffix.
		if err := s.repo.Update(ctx, project); err != nil {
			return nil, err
		}
		return project, nil
	}

	base := slug.Make(name)
	if err := s.withUniqueSlug(base, func(candidate string) error {
		project.Slug = candidate
		return s.repo.Update(ctx, project)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Renamed project",
		zap.String("project_id", project.ID.String()),
		zap.String("slug", project.Slug),
	)
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// withUniqueSlug runs write with the base slug, then numbered suffixes,
// until the unique index stops rejecting it. The index is the only
// uniqueness authority; probing for free slugs first would race.
func (s *projectService) withUniqueSlug(base string, write func(candidate string) error) error {
	candidate := base
	for attempt := 1; ; attempt++ {
		err := write(candidate)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrSlugTaken) {
			return err
		}
		if attempt >= maxSlugAttempts {
			s.logger.Warn("Slug suffix space exhausted", zap.String("base", base))
			return fmt.Errorf("%w: base %q", apperrors.ErrSlugExhausted, base)
		}
		candidate = slug.WithSuffix(base, attempt)
	}
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
