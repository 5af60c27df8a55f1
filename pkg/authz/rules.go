package authz

import "github.com/taskhive-io/taskhive-engine/pkg/models"

// scope is the resolved context a rule is applied against. Global admin is
// never part of a scope: the evaluator short-circuits admins to Allow
// before any rule runs.
type scope struct {
	role     string // membership role, "" when not a member
	isMember bool
	isOwner  bool // actor is the record's user (author, assignee, reviewer)
}

func (s scope) isTeamLead() bool {
	return s.isMember && s.role == models.RoleTeamLead
}

// ruleFunc decides one (resource type, action) cell of the permission
// table for a non-admin actor.
type ruleFunc func(action Action, s scope) bool

// rules maps resource types to their permission tables. Ownership is an
// OR-alternative to role checks, never a veto: an owner disqualified by
// role can still act on their own comment or time log, but not on
// assignment create/delete or review delete, where the role requirement
// is unconditional.
var rules = map[ResourceType]ruleFunc{
	ResourceProject: func(action Action, s scope) bool {
		// Non-admins may only view projects they are members of.
		return action == ActionView && s.isMember
	},

	ResourceBoard: func(action Action, s scope) bool {
		switch action {
		case ActionView:
			return s.isMember
		case ActionUpdate, ActionDelete:
			return s.isTeamLead()
		}
		return false
	},

	// Membership management is admin-only for every action.
	ResourceMembership: func(Action, scope) bool { return false },

	ResourceCard: func(action Action, s scope) bool {
		if action == ActionView {
			return s.isMember
		}
		return s.isTeamLead()
	},

	// Any membership role may manage subtasks.
	ResourceSubtask: func(_ Action, s scope) bool {
		return s.isMember
	},

	ResourceAssignment: func(action Action, s scope) bool {
		switch action {
		case ActionView:
			return s.isMember || s.isOwner
		case ActionUpdate:
			return s.isTeamLead() || s.isOwner
		case ActionCreate, ActionDelete:
			return s.isTeamLead()
		}
		return false
	},

	ResourceComment: func(action Action, s scope) bool {
		switch action {
		case ActionView, ActionCreate:
			return s.isMember
		case ActionUpdate, ActionDelete:
			return s.isOwner || s.isTeamLead()
		}
		return false
	},

	ResourceTimeLog: func(action Action, s scope) bool {
		switch action {
		case ActionView:
			return s.isMember || s.isOwner
		case ActionCreate:
			return s.isMember
		case ActionUpdate, ActionDelete:
			return s.isOwner || s.isTeamLead()
		}
		return false
	},

	ResourceReview: func(action Action, s scope) bool {
		switch action {
		case ActionView:
			return s.isTeamLead() || s.isOwner
		case ActionCreate, ActionUpdate:
			// Create requires team lead; update is reserved to the
			// reviewer amending their own verdict.
			if action == ActionCreate {
				return s.isTeamLead()
			}
			return s.isOwner
		}
		// Delete is admin-only; ownership is irrelevant.
		return false
	},
}
