package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/auth"
	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// fakeMemberships is an in-memory authz.MembershipLookup.
type fakeMemberships struct {
	rows map[string]string // projectID|userID -> role
}

func (f *fakeMemberships) Get(_ context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	role, ok := f.rows[projectID.String()+"|"+userID.String()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.Membership{ProjectID: projectID, UserID: userID, Role: role}, nil
}

// fakeStore is an in-memory authz.ResourceStore serving the fixture's
// project, board and card. The remaining lookups always miss.
type fakeStore struct {
	projects map[uuid.UUID]*models.Project
	boards   map[uuid.UUID]*models.Board
	cards    map[uuid.UUID]*models.Card
}

func (f *fakeStore) Project(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Board(_ context.Context, id uuid.UUID) (*models.Board, error) {
	if b, ok := f.boards[id]; ok {
		return b, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Card(_ context.Context, id uuid.UUID) (*models.Card, error) {
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Subtask(context.Context, uuid.UUID) (*models.Subtask, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Comment(context.Context, uuid.UUID) (*models.Comment, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) TimeLog(context.Context, uuid.UUID) (*models.TimeLog, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Assignment(context.Context, uuid.UUID) (*models.CardAssignment, error) {
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) Review(context.Context, uuid.UUID) (*models.CardReview, error) {
	return nil, apperrors.ErrNotFound
}

var (
	_ authz.MembershipLookup = (*fakeMemberships)(nil)
	_ authz.ResourceStore    = (*fakeStore)(nil)
)

// harness wires a real evaluator and real auth middleware over in-memory
// fakes, with one actor per role.
type harness struct {
	mux        *http.ServeMux
	middleware *auth.Middleware
	evaluator  *authz.Evaluator
	tokens     map[string]string // role name -> bearer token

	project *models.Project
	board   *models.Board
	card    *models.Card
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	project := &models.Project{ID: uuid.New(), Name: "Apollo", Slug: "apollo"}
	board := &models.Board{ID: uuid.New(), ProjectID: project.ID, Name: "Sprint 1"}
	card := &models.Card{ID: uuid.New(), BoardID: board.ID, Title: "Ship it"}

	admin, lead, dev, outsider := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	memberships := &fakeMemberships{rows: map[string]string{
		project.ID.String() + "|" + lead.String(): models.RoleTeamLead,
		project.ID.String() + "|" + dev.String():  models.RoleDeveloper,
	}}
	store := &fakeStore{
		projects: map[uuid.UUID]*models.Project{project.ID: project},
		boards:   map[uuid.UUID]*models.Board{board.ID: board},
		cards:    map[uuid.UUID]*models.Card{card.ID: card},
	}

	tokenSvc := auth.NewService([]byte("test-key"), "taskhive")
	issue := func(id uuid.UUID, globalRole string) string {
		token, err := tokenSvc.IssueToken(id.String(), globalRole, "", time.Hour)
		require.NoError(t, err)
		return token
	}

	return &harness{
		mux:        http.NewServeMux(),
		middleware: auth.NewMiddleware(tokenSvc, zap.NewNop()),
		evaluator:  authz.NewEvaluator(memberships, store),
		tokens: map[string]string{
			"admin":    issue(admin, models.GlobalRoleAdmin),
			"lead":     issue(lead, models.GlobalRoleMember),
			"dev":      issue(dev, models.GlobalRoleMember),
			"outsider": issue(outsider, models.GlobalRoleMember),
		},
		project: project,
		board:   board,
		card:    card,
	}
}

// do runs a request through the harness mux as the named actor. An empty
// role sends the request unauthenticated.
func (h *harness) do(t *testing.T, method, target, role, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if role != "" {
		token, ok := h.tokens[role]
		require.True(t, ok, "unknown role %q", role)
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.mux.ServeHTTP(w, r)
	return w
}
