package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a fire-and-forget message for a user. It is never
// consulted by authorization.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification type constants.
const (
	NotificationCardReviewed = "card_reviewed"
	NotificationCardAssigned = "card_assigned"
)
