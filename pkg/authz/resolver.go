package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// MembershipLookup is the read the resolver needs from the membership
// store. Absence of a row is reported as apperrors.ErrNotFound.
type MembershipLookup interface {
	Get(ctx context.Context, projectID, userID uuid.UUID) (*models.Membership, error)
}

// Resolver determines an actor's effective role within a single project.
// There is no cross-project aggregation: a user may hold different roles
// in different projects and resolution is always scoped to one.
type Resolver struct {
	memberships MembershipLookup
}

// NewResolver creates a resolver backed by the given membership store.
func NewResolver(memberships MembershipLookup) *Resolver {
	return &Resolver{memberships: memberships}
}

// RoleInProject returns the actor's membership role in the project and
// whether a membership exists. No membership row means not a member, which
// is an ordinary outcome, not an error.
func (r *Resolver) RoleInProject(ctx context.Context, userID, projectID uuid.UUID) (string, bool, error) {
	m, err := r.memberships.Get(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return m.Role, true, nil
}
