// Package repositories contains PostgreSQL data access for taskhive-engine.
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

// MembershipRepository defines the interface for membership data access.
// It is the sole source of truth for per-project authorization.
type MembershipRepository interface {
	// Upsert adds a user to a project or, when a row already exists for
	// the (project, user) pair, overwrites its role. The pair is unique;
	// duplicates are impossible by construction.
	Upsert(ctx context.Context, m *models.Membership) error
	Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error)
	Remove(ctx context.Context, projectID, userID uuid.UUID) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Membership, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error)
}

// membershipRepository implements MembershipRepository using PostgreSQL.
type membershipRepository struct {
	db *database.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *database.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Upsert(ctx context.Context, m *models.Membership) error {
	now := time.Now()

	// A role overwrite keeps the original created_at, so read both
	// timestamps back instead of assuming the insert path.
	query := `
		INSERT INTO memberships (project_id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (project_id, user_id) DO UPDATE
		SET role = EXCLUDED.role,
		    updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query, m.ProjectID, m.UserID, m.Role, now).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert membership: %w", err)
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT project_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE project_id = $1 AND user_id = $2`

	var m models.Membership
	err := r.db.QueryRow(ctx, query, projectID, userID).Scan(
		&m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

func (r *membershipRepository) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM memberships WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove membership: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *membershipRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT project_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE project_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func (r *membershipRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT project_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	return scanMemberships(rows)
}

func scanMemberships(rows pgx.Rows) ([]*models.Membership, error) {
	var out []*models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}
	return out, nil
}

// Ensure membershipRepository implements MembershipRepository at compile time.
var _ MembershipRepository = (*membershipRepository)(nil)
