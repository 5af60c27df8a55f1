// Package handlers contains the HTTP transport layer for taskhive-engine.
// Every mutating or sensitive-read route runs parse, authenticate,
// authorize, act, in that order; authorization outcomes map to 403 and 404
// before any service call happens.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// respondDecision translates an authorization decision into a response.
// Returns true when the handler may proceed; otherwise it has already
// written 403 for a denial or 404 for a missing target.
func respondDecision(w http.ResponseWriter, logger *zap.Logger, d authz.Decision) bool {
	switch d {
	case authz.Allow:
		return true
	case authz.NotFound:
		if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	default:
		if err := ErrorResponse(w, http.StatusForbidden, "forbidden", "You do not have access to this resource"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
	}
	return false
}

// respondServiceError maps service-layer errors onto transport status codes.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	var status int
	var code string
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidRole),
		errors.Is(err, apperrors.ErrInvalidStatus):
		status, code = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, apperrors.ErrReviewWindowClosed):
		status, code = http.StatusConflict, "window_closed"
	case errors.Is(err, apperrors.ErrSlugExhausted):
		status, code = http.StatusConflict, "slug_exhausted"
	default:
		logger.Error(fallback, zap.Error(err))
		status, code = http.StatusInternalServerError, "internal_error"
		err = errors.New(fallback)
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}
