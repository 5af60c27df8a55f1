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

const timeLogColumns = `id, card_id, subtask_id, user_id, started_at, ended_at,
	duration_minutes, note, created_at, updated_at`

// TimeLogRepository defines the interface for time log data access.
type TimeLogRepository interface {
	Create(ctx context.Context, tl *models.TimeLog) error
	Get(ctx context.Context, id uuid.UUID) (*models.TimeLog, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.TimeLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.TimeLog, error)
	Update(ctx context.Context, tl *models.TimeLog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type timeLogRepository struct {
	db *database.DB
}

// NewTimeLogRepository creates a new time log repository.
func NewTimeLogRepository(db *database.DB) TimeLogRepository {
	return &timeLogRepository{db: db}
}

func (r *timeLogRepository) Create(ctx context.Context, tl *models.TimeLog) error {
	if tl.ID == uuid.Nil {
		tl.ID = uuid.New()
	}
	now := time.Now()
	tl.CreatedAt = now
	tl.UpdatedAt = now
	tl.ComputeDuration()

	query := `
		INSERT INTO time_logs (id, card_id, subtask_id, user_id, started_at, ended_at,
			duration_minutes, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		tl.ID, tl.CardID, tl.SubtaskID, tl.UserID, tl.StartedAt, tl.EndedAt,
		tl.DurationMinutes, tl.Note, tl.CreatedAt, tl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create time log: %w", err)
	}
	return nil
}

func (r *timeLogRepository) Get(ctx context.Context, id uuid.UUID) (*models.TimeLog, error) {
	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE id = $1`

	var tl models.TimeLog
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tl.ID, &tl.CardID, &tl.SubtaskID, &tl.UserID, &tl.StartedAt, &tl.EndedAt,
		&tl.DurationMinutes, &tl.Note, &tl.CreatedAt, &tl.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get time log: %w", err)
	}
	return &tl, nil
}

func (r *timeLogRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.TimeLog, error) {
	query := `SELECT ` + timeLogColumns + ` FROM time_logs WHERE card_id = $1 ORDER BY started_at`
	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func (r *timeLogRepository) ListByUser(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*models.TimeLog, error) {
	query := `SELECT ` + timeLogColumns + `
		FROM time_logs
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()
	return scanTimeLogs(rows)
}

func (r *timeLogRepository) Update(ctx context.Context, tl *models.TimeLog) error {
	tl.UpdatedAt = time.Now()
	tl.ComputeDuration()

	query := `
		UPDATE time_logs
		SET started_at = $2, ended_at = $3, duration_minutes = $4, note = $5, updated_at = $6
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		tl.ID, tl.StartedAt, tl.EndedAt, tl.DurationMinutes, tl.Note, tl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update time log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *timeLogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM time_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time log: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanTimeLogs(rows pgx.Rows) ([]*models.TimeLog, error) {
	var out []*models.TimeLog
	for rows.Next() {
		var tl models.TimeLog
		if err := rows.Scan(&tl.ID, &tl.CardID, &tl.SubtaskID, &tl.UserID, &tl.StartedAt,
			&tl.EndedAt, &tl.DurationMinutes, &tl.Note, &tl.CreatedAt, &tl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}
		out = append(out, &tl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time logs: %w", err)
	}
	return out, nil
}

// Ensure timeLogRepository implements TimeLogRepository at compile time.
var _ TimeLogRepository = (*timeLogRepository)(nil)
