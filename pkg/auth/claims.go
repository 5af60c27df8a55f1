// Package auth provides JWT-based authentication for taskhive-engine.
// It identifies the actor; authorization decisions live in pkg/authz.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/authz"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Claims is the token payload. Subject carries the user UUID; GlobalRole
// is the user-level role ('admin' or 'member'). Project-scoped roles are
// deliberately NOT in the token: they are membership rows resolved per
// request, so a role change takes effect without reissuing tokens.
type Claims struct {
	jwt.RegisteredClaims
	GlobalRole string `json:"grole,omitempty"`
	Email      string `json:"email,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// ActorFromContext builds the authorization actor from the claims in
// context. Returns false when the request is unauthenticated or the
// subject is not a valid UUID.
func ActorFromContext(ctx context.Context) (authz.Actor, bool) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return authz.Actor{}, false
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return authz.Actor{}, false
	}
	return authz.Actor{ID: userID, GlobalRole: claims.GlobalRole}, true
}
