package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership is the (project, user, role) row governing all per-project
// authorization. At most one row exists per (project, user) pair; adding
// a duplicate overwrites the role instead of creating a second row.
type Membership struct {
	ProjectID uuid.UUID `json:"project_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"` // 'team lead', 'developer', 'designer'
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project role constants. These literal values are matched exactly by the
// authorization rules; do not re-spell them.
const (
	RoleTeamLead  = "team lead"
	RoleDeveloper = "developer"
	RoleDesigner  = "designer"
)

// ValidProjectRoles contains all valid membership role values.
var ValidProjectRoles = []string{RoleTeamLead, RoleDeveloper, RoleDesigner}

// IsValidProjectRole checks if the given membership role is valid.
func IsValidProjectRole(role string) bool {
	for _, r := range ValidProjectRoles {
		if r == role {
			return true
		}
	}
	return false
}
