package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
)

// Evaluator combines the role resolver, the resource locator and the
// per-resource rule tables into allow/deny decisions. It never mutates
// state and must be consulted before every mutating or sensitive-read
// operation.
type Evaluator struct {
	resolver *Resolver
	locator  *Locator
}

// NewEvaluator creates an evaluator over the given membership and resource
// stores.
func NewEvaluator(memberships MembershipLookup, store ResourceStore) *Evaluator {
	return &Evaluator{
		resolver: NewResolver(memberships),
		locator:  NewLocator(store),
	}
}

// Evaluate decides whether the actor may perform the action on an existing
// resource. The returned error is reserved for infrastructure failures;
// authorization outcomes, including missing and unresolvable resources,
// are expressed through the Decision.
//
// Admin bypass is the first check and short-circuits everything else,
// including resource resolution. For non-admins an unresolvable ownership
// chain denies: ambiguity is never resolved in favor of granting access.
func (e *Evaluator) Evaluate(ctx context.Context, actor Actor, action Action, ref Ref) (Decision, error) {
	if actor.IsAdmin() {
		return Allow, nil
	}

	loc, err := e.locator.Locate(ctx, ref)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnresolvableResource) {
			return Deny, nil
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return NotFound, nil
		}
		return Deny, err
	}

	return e.apply(ctx, actor, action, ref.Type, loc)
}

// EvaluateCreate decides whether the actor may create a resource of the
// given type within the container identified by parent (the board a card
// is created on, the card a subtask is created under, and so on).
// Projects and memberships have no container: project creation is
// admin-only, and membership management is admin-only for every action.
func (e *Evaluator) EvaluateCreate(ctx context.Context, actor Actor, typ ResourceType, parent Ref) (Decision, error) {
	return e.EvaluateInScope(ctx, actor, ActionCreate, typ, parent)
}

// EvaluateInScope decides an action for a resource type against a rule run
// inside the container identified by parent, with no record ownership in
// play. Besides creation this covers collection reads, where the rule for
// the listed type must hold without an owner alternative.
func (e *Evaluator) EvaluateInScope(ctx context.Context, actor Actor, action Action, typ ResourceType, parent Ref) (Decision, error) {
	if actor.IsAdmin() {
		return Allow, nil
	}
	if typ == ResourceProject || typ == ResourceMembership {
		return Deny, nil
	}

	loc, err := e.locator.Locate(ctx, parent)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnresolvableResource) {
			return Deny, nil
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return NotFound, nil
		}
		return Deny, err
	}

	// Scoped decisions never depend on ownership of an existing record.
	loc.OwnerID = uuid.Nil
	return e.apply(ctx, actor, action, typ, loc)
}

// EvaluateInProject decides an action for a resource type directly scoped
// to a known project, without walking a chain. Used for list endpoints and
// membership management where the project is already identified.
func (e *Evaluator) EvaluateInProject(ctx context.Context, actor Actor, action Action, typ ResourceType, projectID uuid.UUID) (Decision, error) {
	if actor.IsAdmin() {
		return Allow, nil
	}
	return e.apply(ctx, actor, action, typ, Located{ProjectID: projectID})
}

// Can is the boolean convenience form of Evaluate. Infrastructure errors
// collapse to false: a decision that cannot be computed is a denial.
func (e *Evaluator) Can(ctx context.Context, actor Actor, action Action, ref Ref) bool {
	d, err := e.Evaluate(ctx, actor, action, ref)
	if err != nil {
		return false
	}
	return d.Allowed()
}

// apply resolves membership and runs the rule table cell.
func (e *Evaluator) apply(ctx context.Context, actor Actor, action Action, typ ResourceType, loc Located) (Decision, error) {
	role, isMember, err := e.resolver.RoleInProject(ctx, actor.ID, loc.ProjectID)
	if err != nil {
		return Deny, err
	}

	rule, ok := rules[typ]
	if !ok {
		return Deny, nil
	}

	s := scope{
		role:     role,
		isMember: isMember,
		isOwner:  loc.OwnerID != uuid.Nil && loc.OwnerID == actor.ID,
	}
	if rule(action, s) {
		return Allow, nil
	}
	return Deny, nil
}
