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

// AssignmentRepository defines the interface for card assignment data access.
type AssignmentRepository interface {
	// Create inserts an assignment; a second assignment of the same user
	// to the same card returns apperrors.ErrConflict.
	Create(ctx context.Context, a *models.CardAssignment) error
	Get(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardAssignment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type assignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *database.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, a *models.CardAssignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if a.Status == "" {
		a.Status = models.AssignmentStatusAssigned
	}

	query := `
		INSERT INTO card_assignments (id, card_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, a.ID, a.CardID, a.UserID, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error) {
	query := `
		SELECT id, card_id, user_id, status, created_at, updated_at
		FROM card_assignments
		WHERE id = $1`

	var a models.CardAssignment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.CardID, &a.UserID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

func (r *assignmentRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardAssignment, error) {
	query := `
		SELECT id, card_id, user_id, status, created_at, updated_at
		FROM card_assignments
		WHERE card_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.CardAssignment
	for rows.Next() {
		var a models.CardAssignment
		if err := rows.Scan(&a.ID, &a.CardID, &a.UserID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return out, nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE card_assignments SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM card_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure assignmentRepository implements AssignmentRepository at compile time.
var _ AssignmentRepository = (*assignmentRepository)(nil)
