package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	slugTaken := &pgconn.PgError{Code: "23505", ConstraintName: "projects_slug_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil error", nil, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"other pg error", &pgconn.PgError{Code: "23503"}, "", false},
		{"any unique violation", slugTaken, "", true},
		{"named constraint matches", slugTaken, "projects_slug_key", true},
		{"named constraint differs", slugTaken, "users_email_key", false},
		{"wrapped", fmt.Errorf("failed to create project: %w", slugTaken), "projects_slug_key", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}
