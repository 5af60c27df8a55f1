package models

import "github.com/google/uuid"

// Project health classifications, in precedence order: deadline overrun
// beats overdue-card count beats completion percentage.
const (
	HealthOverdue        = "Overdue"
	HealthAtRisk         = "At Risk"
	HealthOnTrack        = "On Track"
	HealthNeedsAttention = "Needs Attention"
)

// ProjectReport aggregates dashboard figures for one project.
type ProjectReport struct {
	ProjectID      uuid.UUID      `json:"project_id"`
	ProjectName    string         `json:"project_name"`
	TotalCards     int            `json:"total_cards"`
	ByStatus       map[string]int `json:"by_status"`
	ByPriority     map[string]int `json:"by_priority"`
	OverdueCards   int            `json:"overdue_cards"`
	CompletionRate float64        `json:"completion_rate"` // percentage, 2 decimal places
	DaysRemaining  int            `json:"days_remaining"`
	Health         string         `json:"health"`
}

// UserWorkload aggregates per-user assignment figures across a date range.
type UserWorkload struct {
	UserID         uuid.UUID `json:"user_id"`
	UserName       string    `json:"user_name"`
	Assigned       int       `json:"assigned"`
	InProgress     int       `json:"in_progress"`
	Completed      int       `json:"completed"`
	HoursLogged    float64   `json:"hours_logged"`
	CompletionRate float64   `json:"completion_rate"`
}
