package models

import (
	"time"

	"github.com/google/uuid"
)

// CardAssignment records who is working a card. One row per (card, user).
type CardAssignment struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"card_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"` // 'assigned', 'in progress', 'completed'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assignment status constants.
const (
	AssignmentStatusAssigned   = "assigned"
	AssignmentStatusInProgress = "in progress"
	AssignmentStatusCompleted  = "completed"
)

// ValidAssignmentStatuses contains all valid assignment status values.
var ValidAssignmentStatuses = []string{AssignmentStatusAssigned, AssignmentStatusInProgress, AssignmentStatusCompleted}

// IsValidAssignmentStatus checks if the given assignment status is valid.
func IsValidAssignmentStatus(status string) bool {
	for _, s := range ValidAssignmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}
