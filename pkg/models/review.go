package models

import (
	"time"

	"github.com/google/uuid"
)

// CardReview is an append-only review verdict on a card. After creation it
// is immutable except by its reviewer within AmendWindow, and only an admin
// may delete it.
type CardReview struct {
	ID         uuid.UUID `json:"id"`
	CardID     uuid.UUID `json:"card_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Status     string    `json:"status"` // 'approved', 'rejected'
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Review status constants.
const (
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// ValidReviewStatuses contains all valid review status values.
var ValidReviewStatuses = []string{ReviewStatusApproved, ReviewStatusRejected}

// IsValidReviewStatus checks if the given review status is valid.
func IsValidReviewStatus(status string) bool {
	for _, s := range ValidReviewStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AmendWindow is how long a reviewer may amend their own review after
// submitting it.
const AmendWindow = 15 * time.Minute

// CanAmend reports whether the review is still within its amendment window.
func (r *CardReview) CanAmend(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= AmendWindow
}
