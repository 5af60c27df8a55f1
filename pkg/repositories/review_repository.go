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

// ReviewRepository defines the interface for card review data access.
// Reviews are an append-only audit trail: Amend is the only mutation and
// the service layer restricts it to the reviewer within the amend window.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.CardReview) error
	Get(ctx context.Context, id uuid.UUID) (*models.CardReview, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardReview, error)
	Amend(ctx context.Context, id uuid.UUID, status, notes string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	db *database.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *database.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.CardReview) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()

	query := `
		INSERT INTO card_reviews (id, card_id, reviewer_id, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		review.ID, review.CardID, review.ReviewerID, review.Status, review.Notes, review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Get(ctx context.Context, id uuid.UUID) (*models.CardReview, error) {
	query := `
		SELECT id, card_id, reviewer_id, status, notes, created_at
		FROM card_reviews
		WHERE id = $1`

	var rv models.CardReview
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.CardID, &rv.ReviewerID, &rv.Status, &rv.Notes, &rv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &rv, nil
}

func (r *reviewRepository) ListByCard(ctx context.Context, cardID uuid.UUID) ([]*models.CardReview, error) {
	query := `
		SELECT id, card_id, reviewer_id, status, notes, created_at
		FROM card_reviews
		WHERE card_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var out []*models.CardReview
	for rows.Next() {
		var rv models.CardReview
		if err := rows.Scan(&rv.ID, &rv.CardID, &rv.ReviewerID, &rv.Status, &rv.Notes, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		out = append(out, &rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return out, nil
}

func (r *reviewRepository) Amend(ctx context.Context, id uuid.UUID, status, notes string) error {
	query := `UPDATE card_reviews SET status = $2, notes = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, notes)
	if err != nil {
		return fmt.Errorf("failed to amend review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM card_reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Ensure reviewRepository implements ReviewRepository at compile time.
var _ ReviewRepository = (*reviewRepository)(nil)
