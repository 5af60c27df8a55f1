package apperrors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrUnresolvableResource = errors.New("resource ownership chain cannot be resolved")
	ErrSlugExhausted        = errors.New("could not generate a unique slug")
	ErrReviewWindowClosed   = errors.New("review can no longer be amended")
)
