package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/database"
)

// WorkloadRow is one user's raw assignment aggregates from the database;
// the report service turns rows into models.UserWorkload.
type WorkloadRow struct {
	UserID      uuid.UUID
	UserName    string
	Assigned    int
	InProgress  int
	Completed   int
	MinutesSum  int
}

// ReportRepository runs the aggregate queries behind dashboards and
// exports. Everything here is read-only and safe to run concurrently.
type ReportRepository interface {
	// CardCountsByStatus returns card counts keyed by status for a project.
	CardCountsByStatus(ctx context.Context, projectID uuid.UUID) (map[string]int, error)
	// CardCountsByPriority returns card counts keyed by priority for a project.
	CardCountsByPriority(ctx context.Context, projectID uuid.UUID) (map[string]int, error)
	// OverdueCardCount counts cards past their due date that are not done.
	OverdueCardCount(ctx context.Context, projectID uuid.UUID, now time.Time) (int, error)
	// Workloads aggregates per-user assignment counts and logged minutes
	// across a date range. A project filter scopes the counts and the
	// minutes alike; hours logged elsewhere never bleed into a project row.
	Workloads(ctx context.Context, projectID *uuid.UUID, from, to time.Time) ([]WorkloadRow, error)
}

type reportRepository struct {
	db *database.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *database.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) CardCountsByStatus(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.countsBy(ctx, "status", projectID)
}

func (r *reportRepository) CardCountsByPriority(ctx context.Context, projectID uuid.UUID) (map[string]int, error) {
	return r.countsBy(ctx, "priority", projectID)
}

// countsBy groups project cards by the given column. The column name is
// one of two fixed identifiers, never user input.
func (r *reportRepository) countsBy(ctx context.Context, column string, projectID uuid.UUID) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT c.%s, COUNT(*)
		FROM cards c
		JOIN boards b ON b.id = c.board_id
		WHERE b.project_id = $1
		GROUP BY c.%s`, column, column)

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}

func (r *reportRepository) OverdueCardCount(ctx context.Context, projectID uuid.UUID, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM cards c
		JOIN boards b ON b.id = c.board_id
		WHERE b.project_id = $1
		  AND c.due_date IS NOT NULL
		  AND c.due_date < $2
		  AND c.status <> 'done'`

	var n int
	if err := r.db.QueryRow(ctx, query, projectID, now).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count overdue cards: %w", err)
	}
	return n, nil
}

func (r *reportRepository) Workloads(ctx context.Context, projectID *uuid.UUID, from, to time.Time) ([]WorkloadRow, error) {
	query := `
		SELECT u.id, u.name,
			COUNT(*) FILTER (WHERE ca.status = 'assigned'),
			COUNT(*) FILTER (WHERE ca.status = 'in progress'),
			COUNT(*) FILTER (WHERE ca.status = 'completed'),
			COALESCE((
				SELECT SUM(tl.duration_minutes)
				FROM time_logs tl
				JOIN cards tc ON tc.id = tl.card_id
				JOIN boards tb ON tb.id = tc.board_id
				WHERE tl.user_id = u.id AND tl.started_at >= $1 AND tl.started_at < $2
				  AND ($3::uuid IS NULL OR tb.project_id = $3)
			), 0)
		FROM card_assignments ca
		JOIN users u ON u.id = ca.user_id
		JOIN cards c ON c.id = ca.card_id
		JOIN boards b ON b.id = c.board_id
		WHERE ca.created_at >= $1 AND ca.created_at < $2
		  AND ($3::uuid IS NULL OR b.project_id = $3)
		GROUP BY u.id, u.name
		ORDER BY u.name`

	rows, err := r.db.Query(ctx, query, from, to, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate workloads: %w", err)
	}
	defer rows.Close()

	var out []WorkloadRow
	for rows.Next() {
		var w WorkloadRow
		if err := rows.Scan(&w.UserID, &w.UserName, &w.Assigned, &w.InProgress,
			&w.Completed, &w.MinutesSum); err != nil {
			return nil, fmt.Errorf("failed to scan workload row: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workload rows: %w", err)
	}
	return out, nil
}

// Ensure reportRepository implements ReportRepository at compile time.
var _ ReportRepository = (*reportRepository)(nil)
