package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/database"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// ErrSlugTaken signals that an insert or rename lost the race for a slug.
// The project service reacts by retrying with the next suffix; it is never
// surfaced to callers as a user error.
var ErrSlugTaken = errors.New("slug already taken")

// projectColumns is the scan list shared by project queries.
const projectColumns = `id, name, slug, description, deadline, created_by, created_at, updated_at`

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	// Create inserts a project with the given slug, returning ErrSlugTaken
	// when the slug unique index rejects it.
	Create(ctx context.Context, project *models.Project) error
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)
	// Update writes name, slug, description and deadline, returning
	// ErrSlugTaken when a rename collides with another project's slug.
	Update(ctx context.Context, project *models.Project) error
	// Delete removes a project; descendants go with it via ON DELETE CASCADE.
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.Name, project.Slug, project.Description,
		project.Deadline, project.CreatedBy, project.CreatedAt, project.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "projects_slug_key") {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return r.getBy(ctx, `WHERE slug = $1`, slug)
}

func (r *projectRepository) getBy(ctx context.Context, where string, arg any) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ` + where

	var p models.Project
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Deadline,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (r *projectRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	query := `
		SELECT p.id, p.name, p.slug, p.description, p.deadline, p.created_by, p.created_at, p.updated_at
		FROM projects p
		JOIN memberships m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	return scanProjects(rows)
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET name = $2, slug = $3, description = $4, deadline = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		project.ID, project.Name, project.Slug, project.Description,
		project.Deadline, project.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "projects_slug_key") {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanProjects(rows pgx.Rows) ([]*models.Project, error) {
	var out []*models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Deadline,
			&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	return out, nil
}

// Ensure projectRepository implements ProjectRepository at compile time.
var _ ProjectRepository = (*projectRepository)(nil)
