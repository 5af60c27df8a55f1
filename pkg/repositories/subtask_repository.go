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

// SubtaskRepository defines the interface for subtask data access.
type SubtaskRepository interface {
	Create(ctx context.Context, subtask *models.Subtask) error
	Get(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Subtask, error)
	Update(ctx context.Context, subtask *models.Subtask) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type subtaskRepository struct {
	db *database.DB
}

// NewSubtaskRepository creates a new subtask repository.
func NewSubtaskRepository(db *database.DB) SubtaskRepository {
	return &subtaskRepository{db: db}
}

func (r *subtaskRepository) Create(ctx context.Context, subtask *models.Subtask) error {
	if subtask.ID == uuid.Nil {
		subtask.ID = uuid.New()
	}
	now := time.Now()
	subtask.CreatedAt = now
	subtask.UpdatedAt = now
	if subtask.Status == "" {
		subtask.Status = models.SubtaskStatusTodo
	}

	query := `
		INSERT INTO subtasks (id, card_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		subtask.ID, subtask.CardID, subtask.Title, subtask.Status,
		subtask.CreatedAt, subtask.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subtask: %w", err)
	}
	return nil
}

func (r *subtaskRepository) Get(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	query := `
		SELECT id, card_id, title, status, created_at, updated_at
		FROM subtasks
		WHERE id = $1`

	var st models.Subtask
	err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.CardID, &st.Title, &st.Status, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return &st, nil
}

func (r *subtaskRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.Subtask, error) {
	query := `
		SELECT id, card_id, title, status, created_at, updated_at
		FROM subtasks
		WHERE card_id = $1
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer rows.Close()

	var out []*models.Subtask
	for rows.Next() {
		var st models.Subtask
		if err := rows.Scan(&st.ID, &st.CardID, &st.Title, &st.Status, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		out = append(out, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subtasks: %w", err)
	}
	return out, nil
}

func (r *subtaskRepository) Update(ctx context.Context, subtask *models.Subtask) error {
	subtask.UpdatedAt = time.Now()

	query := `
		UPDATE subtasks
		SET title = $2, status = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, subtask.ID, subtask.Title, subtask.Status, subtask.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *subtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure subtaskRepository implements SubtaskRepository at compile time.
var _ SubtaskRepository = (*subtaskRepository)(nil)
