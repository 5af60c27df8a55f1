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

const cardColumns = `id, board_id, title, description, status, priority, due_date,
	estimated_hours, actual_hours, position, created_by, created_at, updated_at`

// CardRepository defines the interface for card data access.
type CardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	Get(ctx context.Context, id uuid.UUID) (*models.Card, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Card, error)
	Update(ctx context.Context, card *models.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cardRepository struct {
	db *database.DB
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *database.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now
	if card.Status == "" {
		card.Status = models.CardStatusTodo
	}
	if card.Priority == "" {
		card.Priority = models.PriorityMedium
	}

	query := `
		INSERT INTO cards (id, board_id, title, description, status, priority, due_date,
			estimated_hours, actual_hours, position, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM cards WHERE board_id = $2),
			$10, $11, $12)
		RETURNING position`

	err := r.db.QueryRow(ctx, query,
		card.ID, card.BoardID, card.Title, card.Description, card.Status,
		card.Priority, card.DueDate, card.EstimatedHours, card.ActualHours,
		card.CreatedBy, card.CreatedAt, card.UpdatedAt,
	).Scan(&card.Position)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) Get(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	var c models.Card
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.BoardID, &c.Title, &c.Description, &c.Status, &c.Priority,
		&c.DueDate, &c.EstimatedHours, &c.ActualHours, &c.Position,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &c, nil
}

func (r *cardRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*models.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE board_id = $1 ORDER BY position, created_at`

	rows, err := r.db.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var out []*models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Title, &c.Description, &c.Status,
			&c.Priority, &c.DueDate, &c.EstimatedHours, &c.ActualHours, &c.Position,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return out, nil
}

func (r *cardRepository) Update(ctx context.Context, card *models.Card) error {
	card.UpdatedAt = time.Now()

	query := `
		UPDATE cards
		SET title = $2, description = $3, status = $4, priority = $5, due_date = $6,
			estimated_hours = $7, actual_hours = $8, position = $9, updated_at = $10
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		card.ID, card.Title, card.Description, card.Status, card.Priority,
		card.DueDate, card.EstimatedHours, card.ActualHours, card.Position, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure cardRepository implements CardRepository at compile time.
var _ CardRepository = (*cardRepository)(nil)
