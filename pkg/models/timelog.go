package models

import (
	"time"

	"github.com/google/uuid"
)

// TimeLog is a work session against a card, optionally narrowed to one of
// its subtasks. CardID is always set; when SubtaskID is also set the two
// must refer to the same lineage (subtask.card_id == CardID). The locator
// verifies agreement and refuses to resolve mismatched rows.
type TimeLog struct {
	ID              uuid.UUID  `json:"id"`
	CardID          uuid.UUID  `json:"card_id"`
	SubtaskID       *uuid.UUID `json:"subtask_id,omitempty"`
	UserID          uuid.UUID  `json:"user_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Note            string     `json:"note"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ComputeDuration derives DurationMinutes from the start/end pair when the
// session has ended. Open sessions keep whatever was set explicitly.
func (t *TimeLog) ComputeDuration() {
	if t.EndedAt == nil {
		return
	}
	d := t.EndedAt.Sub(t.StartedAt)
	if d < 0 {
		d = 0
	}
	t.DurationMinutes = int(d.Minutes())
}
