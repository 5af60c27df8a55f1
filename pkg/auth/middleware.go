package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Validator is what the middleware needs from the token service.
type Validator interface {
	ValidateRequest(r *http.Request) (*Claims, error)
}

// Middleware provides HTTP authentication middleware. It is thin and
// delegates token verification to the Validator.
type Middleware struct {
	validator Validator
	logger    *zap.Logger
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(validator Validator, logger *zap.Logger) *Middleware {
	return &Middleware{validator: validator, logger: logger}
}

// RequireAuth validates the bearer token and stores claims in the request
// context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.validator.ValidateRequest(r)
		if err != nil {
			m.logger.Debug("Rejected request", zap.String("path", r.URL.Path), zap.Error(err))
			m.unauthorized(w, "Authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
