package models

import (
	"time"

	"github.com/google/uuid"
)

// Subtask is a unit of work within a card, with its own status lifecycle.
type Subtask struct {
	ID        uuid.UUID `json:"id"`
	CardID    uuid.UUID `json:"card_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // 'to do', 'in progress', 'done'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtask status constants. Note the subtask vocabulary differs from the
// card one ('to do' vs 'todo'); both sets are matched literally.
const (
	SubtaskStatusTodo       = "to do"
	SubtaskStatusInProgress = "in progress"
	SubtaskStatusDone       = "done"
)

// ValidSubtaskStatuses contains all valid subtask status values.
var ValidSubtaskStatuses = []string{SubtaskStatusTodo, SubtaskStatusInProgress, SubtaskStatusDone}

// IsValidSubtaskStatus checks if the given subtask status is valid.
func IsValidSubtaskStatus(status string) bool {
	for _, s := range ValidSubtaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}
