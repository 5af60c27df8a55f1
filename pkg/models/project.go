package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Project is the tenancy root: boards, cards and everything below them
// belong to exactly one project, and all membership-based authorization
// is scoped to it.
type Project struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DaysRemaining returns the number of whole days until the deadline,
// negative as soon as the deadline has passed. Projects without a deadline
// report a large positive value so they never classify as overdue.
func (p *Project) DaysRemaining(now time.Time) int {
	if p.Deadline == nil {
		return int(^uint(0) >> 1) // max int
	}
	return int(math.Floor(p.Deadline.Sub(now).Hours() / 24))
}
