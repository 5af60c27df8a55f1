package models

import (
	"time"

	"github.com/google/uuid"
)

// Card is a task on a board. Its owning project is reached via the board.
type Card struct {
	ID             uuid.UUID  `json:"id"`
	BoardID        uuid.UUID  `json:"board_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`   // 'todo', 'in progress', 'review', 'done'
	Priority       string     `json:"priority"` // 'low', 'medium', 'high'
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	Position       int        `json:"position"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Card status constants.
const (
	CardStatusTodo       = "todo"
	CardStatusInProgress = "in progress"
	CardStatusReview     = "review"
	CardStatusDone       = "done"
)

// ValidCardStatuses contains all valid card status values.
var ValidCardStatuses = []string{CardStatusTodo, CardStatusInProgress, CardStatusReview, CardStatusDone}

// Card priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriorities contains all valid card priority values.
var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// IsValidCardStatus checks if the given card status is valid.
func IsValidCardStatus(status string) bool {
	for _, s := range ValidCardStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidPriority checks if the given priority is valid.
func IsValidPriority(priority string) bool {
	for _, p := range ValidPriorities {
		if p == priority {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the card has a due date in the past and is not done.
func (c *Card) IsOverdue(now time.Time) bool {
	return c.DueDate != nil && c.DueDate.Before(now) && c.Status != CardStatusDone
}
