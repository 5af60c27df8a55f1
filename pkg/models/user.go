// Package models contains domain types for taskhive-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account in the system. The global role is separate
// from per-project membership roles: 'admin' bypasses membership checks
// entirely, 'member' has no rights beyond their memberships.
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	GlobalRole string    `json:"global_role"` // 'admin', 'member'
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Global role constants.
const (
	GlobalRoleAdmin  = "admin"
	GlobalRoleMember = "member"
)

// ValidGlobalRoles contains all valid global role values.
var ValidGlobalRoles = []string{GlobalRoleAdmin, GlobalRoleMember}

// IsValidGlobalRole checks if the given global role is valid.
func IsValidGlobalRole(role string) bool {
	for _, r := range ValidGlobalRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the global admin role.
func (u *User) IsAdmin() bool {
	return u.GlobalRole == GlobalRoleAdmin
}
