// Package authz implements membership-based authorization for taskhive-engine.
//
// Every decision combines three pure reads: the actor's global role, the
// owning project of the target resource (walked up the foreign-key chain by
// the Locator), and the actor's membership row in that project. Evaluation
// is stateless and side-effect free; callers re-evaluate per action.
package authz

import (
	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// Action names the operation being authorized.
type Action string

// Actions understood by the rule tables.
const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceType names an authorizable entity kind.
type ResourceType string

// Resource types understood by the locator and rule tables.
const (
	ResourceProject    ResourceType = "project"
	ResourceBoard      ResourceType = "board"
	ResourceMembership ResourceType = "membership"
	ResourceCard       ResourceType = "card"
	ResourceSubtask    ResourceType = "subtask"
	ResourceAssignment ResourceType = "assignment"
	ResourceComment    ResourceType = "comment"
	ResourceTimeLog    ResourceType = "timelog"
	ResourceReview     ResourceType = "review"
)

// Ref identifies an existing resource instance.
type Ref struct {
	Type ResourceType
	ID   uuid.UUID
}

// Actor is the authenticated principal a decision is made for.
type Actor struct {
	ID         uuid.UUID
	GlobalRole string
}

// IsAdmin reports whether the actor holds the global admin role. Global
// admin is a user-level flag, deliberately separate from project-scoped
// membership roles: it bypasses membership checks entirely.
func (a Actor) IsAdmin() bool {
	return a.GlobalRole == models.GlobalRoleAdmin
}

// Decision is the outcome of an authorization evaluation. Deny is the zero
// value so any unhandled path denies by default.
type Decision int

// Decision values. NotFound is distinct from Deny so the transport layer
// can answer 404 instead of 403 when the target does not exist.
const (
	Deny Decision = iota
	Allow
	NotFound
)

// String returns a human-readable decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotFound:
		return "not found"
	default:
		return "deny"
	}
}

// Allowed reports whether the decision permits the action.
func (d Decision) Allowed() bool {
	return d == Allow
}

// Located is the result of walking a resource's ownership chain: the owning
// project plus, where ownership is meaningful for the resource type, the
// user the record belongs to (comment author, time log user, assignee,
// reviewer). OwnerID is uuid.Nil for resources without an owner.
type Located struct {
	ProjectID uuid.UUID
	OwnerID   uuid.UUID
}
