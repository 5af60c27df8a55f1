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

// CommentRepository defines the interface for comment data access.
//
// Storage keeps the card/subtask pairing as two nullable foreign keys with
// a CHECK constraint; the domain type is a tagged union. A stored row that
// violates the pairing (possible only for pre-constraint data) surfaces as
// apperrors.ErrUnresolvableResource so authorization denies it instead of
// guessing.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Get(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByTarget(ctx context.Context, target models.CommentTarget) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	cardID, subtaskID := comment.Target.Columns()
	if cardID == nil && subtaskID == nil {
		return fmt.Errorf("%w: comment has no target", apperrors.ErrUnresolvableResource)
	}

	query := `
		INSERT INTO comments (id, card_id, subtask_id, author_id, body, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		comment.ID, cardID, subtaskID, comment.AuthorID, comment.Body,
		comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT id, card_id, subtask_id, author_id, body, created_at, updated_at
		FROM comments
		WHERE id = $1`

	var c models.Comment
	var cardID, subtaskID *uuid.UUID
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &cardID, &subtaskID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	target, err := models.TargetFromColumns(cardID, subtaskID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnresolvableResource, err)
	}
	c.Target = target
	return &c, nil
}

func (r *commentRepository) ListByTarget(ctx context.Context, target models.CommentTarget) ([]*models.Comment, error) {
	cardID, subtaskID := target.Columns()

	var rows pgx.Rows
	var err error
	switch {
	case cardID != nil:
		rows, err = r.db.Query(ctx, `
			SELECT id, card_id, subtask_id, author_id, body, created_at, updated_at
			FROM comments WHERE card_id = $1 ORDER BY created_at`, *cardID)
	case subtaskID != nil:
		rows, err = r.db.Query(ctx, `
			SELECT id, card_id, subtask_id, author_id, body, created_at, updated_at
			FROM comments WHERE subtask_id = $1 ORDER BY created_at`, *subtaskID)
	default:
		return nil, fmt.Errorf("%w: comment target has no id", apperrors.ErrUnresolvableResource)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		var rowCardID, rowSubtaskID *uuid.UUID
		if err := rows.Scan(&c.ID, &rowCardID, &rowSubtaskID, &c.AuthorID, &c.Body,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		t, err := models.TargetFromColumns(rowCardID, rowSubtaskID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrUnresolvableResource, err)
		}
		c.Target = t
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return out, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()

	query := `UPDATE comments SET body = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, comment.ID, comment.Body, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure commentRepository implements CommentRepository at compile time.
var _ CommentRepository = (*commentRepository)(nil)
