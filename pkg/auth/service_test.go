package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

const testIssuer = "taskhive"

func TestIssueAndValidate(t *testing.T) {
	svc := NewService([]byte("test-key"), testIssuer)
	userID := uuid.New()

	token, err := svc.IssueToken(userID.String(), models.GlobalRoleMember, "dana@example.com", time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "/api/projects", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	claims, err := svc.ValidateRequest(r)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, models.GlobalRoleMember, claims.GlobalRole)
	assert.Equal(t, "dana@example.com", claims.Email)
}

func TestValidateRequest_Failures(t *testing.T) {
	svc := NewService([]byte("test-key"), testIssuer)

	valid, err := svc.IssueToken(uuid.NewString(), models.GlobalRoleAdmin, "", time.Hour)
	require.NoError(t, err)

	otherKey, err := NewService([]byte("other-key"), testIssuer).
		IssueToken(uuid.NewString(), models.GlobalRoleAdmin, "", time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewService([]byte("test-key"), "someone-else").
		IssueToken(uuid.NewString(), models.GlobalRoleAdmin, "", time.Hour)
	require.NoError(t, err)

	expired, err := svc.IssueToken(uuid.NewString(), models.GlobalRoleAdmin, "", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong signing key", "Bearer " + otherKey},
		{"wrong issuer", "Bearer " + otherIssuer},
		{"expired", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/projects", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := svc.ValidateRequest(r)
			assert.Error(t, err)
		})
	}

	t.Run("valid token passes", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/projects", nil)
		r.Header.Set("Authorization", "Bearer "+valid)
		_, err := svc.ValidateRequest(r)
		assert.NoError(t, err)
	})
}
