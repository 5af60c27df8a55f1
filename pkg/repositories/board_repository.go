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

// BoardRepository defines the interface for board data access.
type BoardRepository interface {
	// Create inserts a board at the end of the project's ordering.
	Create(ctx context.Context, board *models.Board) error
	Get(ctx context.Context, id uuid.UUID) (*models.Board, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type boardRepository struct {
	db *database.DB
}

// NewBoardRepository creates a new board repository.
func NewBoardRepository(db *database.DB) BoardRepository {
	return &boardRepository{db: db}
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board) error {
	if board.ID == uuid.Nil {
		board.ID = uuid.New()
	}
	now := time.Now()
	board.CreatedAt = now
	board.UpdatedAt = now

	// Position is assigned inside the insert so concurrent creates in the
	// same project cannot both read the same max.
	query := `
		INSERT INTO boards (id, project_id, name, position, created_at, updated_at)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM boards WHERE project_id = $2),
			$4, $5)
		RETURNING position`

	err := r.db.QueryRow(ctx, query,
		board.ID, board.ProjectID, board.Name, board.CreatedAt, board.UpdatedAt,
	).Scan(&board.Position)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

func (r *boardRepository) Get(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	query := `
		SELECT id, project_id, name, position, created_at, updated_at
		FROM boards
		WHERE id = $1`

	var b models.Board
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ProjectID, &b.Name, &b.Position, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return &b, nil
}

func (r *boardRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Board, error) {
	query := `
		SELECT id, project_id, name, position, created_at, updated_at
		FROM boards
		WHERE project_id = $1
		ORDER BY position, created_at`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var out []*models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.Position, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boards: %w", err)
	}
	return out, nil
}

func (r *boardRepository) Update(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now()

	query := `
		UPDATE boards
		SET name = $2, position = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, board.ID, board.Name, board.Position, board.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure boardRepository implements BoardRepository at compile time.
var _ BoardRepository = (*boardRepository)(nil)
