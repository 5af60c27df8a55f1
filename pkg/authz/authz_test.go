package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// fakeMemberships is an in-memory MembershipLookup.
type fakeMemberships struct {
	roles map[string]string // projectID|userID -> role
	err   error
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{roles: make(map[string]string)}
}

func (f *fakeMemberships) set(projectID, userID uuid.UUID, role string) {
	f.roles[projectID.String()+"|"+userID.String()] = role
}

func (f *fakeMemberships) Get(_ context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[projectID.String()+"|"+userID.String()]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.Membership{ProjectID: projectID, UserID: userID, Role: role}, nil
}

// fakeStore is an in-memory ResourceStore.
type fakeStore struct {
	projects    map[uuid.UUID]*models.Project
	boards      map[uuid.UUID]*models.Board
	cards       map[uuid.UUID]*models.Card
	subtasks    map[uuid.UUID]*models.Subtask
	comments    map[uuid.UUID]*models.Comment
	timeLogs    map[uuid.UUID]*models.TimeLog
	assignments map[uuid.UUID]*models.CardAssignment
	reviews     map[uuid.UUID]*models.CardReview
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    make(map[uuid.UUID]*models.Project),
		boards:      make(map[uuid.UUID]*models.Board),
		cards:       make(map[uuid.UUID]*models.Card),
		subtasks:    make(map[uuid.UUID]*models.Subtask),
		comments:    make(map[uuid.UUID]*models.Comment),
		timeLogs:    make(map[uuid.UUID]*models.TimeLog),
		assignments: make(map[uuid.UUID]*models.CardAssignment),
		reviews:     make(map[uuid.UUID]*models.CardReview),
	}
}

func (f *fakeStore) Project(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Board(_ context.Context, id uuid.UUID) (*models.Board, error) {
	if b, ok := f.boards[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("board %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Card(_ context.Context, id uuid.UUID) (*models.Card, error) {
	if c, ok := f.cards[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("card %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Subtask(_ context.Context, id uuid.UUID) (*models.Subtask, error) {
	if s, ok := f.subtasks[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("subtask %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Comment(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("comment %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) TimeLog(_ context.Context, id uuid.UUID) (*models.TimeLog, error) {
	if t, ok := f.timeLogs[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("time log %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Assignment(_ context.Context, id uuid.UUID) (*models.CardAssignment, error) {
	if a, ok := f.assignments[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("assignment %s: %w", id, apperrors.ErrNotFound)
}

func (f *fakeStore) Review(_ context.Context, id uuid.UUID) (*models.CardReview, error) {
	if r, ok := f.reviews[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("review %s: %w", id, apperrors.ErrNotFound)
}

// world is a populated project graph shared by the evaluator tests.
type world struct {
	memberships *fakeMemberships
	store       *fakeStore

	admin    Actor
	lead     Actor
	dev      Actor
	designer Actor
	outsider Actor

	project    *models.Project
	board      *models.Board
	card       *models.Card
	subtask    *models.Subtask
	comment    *models.Comment // authored by dev, on card
	timeLog    *models.TimeLog // logged by dev
	assignment *models.CardAssignment // dev on card
	review     *models.CardReview     // by lead
}

func newWorld() *world {
	w := &world{
		memberships: newFakeMemberships(),
		store:       newFakeStore(),
	}

	w.admin = Actor{ID: uuid.New(), GlobalRole: models.GlobalRoleAdmin}
	w.lead = Actor{ID: uuid.New(), GlobalRole: models.GlobalRoleMember}
	w.dev = Actor{ID: uuid.New(), GlobalRole: models.GlobalRoleMember}
	w.designer = Actor{ID: uuid.New(), GlobalRole: models.GlobalRoleMember}
	w.outsider = Actor{ID: uuid.New(), GlobalRole: models.GlobalRoleMember}

	w.project = &models.Project{ID: uuid.New(), Name: "Apollo", Slug: "apollo"}
	w.store.projects[w.project.ID] = w.project

	w.memberships.set(w.project.ID, w.lead.ID, models.RoleTeamLead)
	w.memberships.set(w.project.ID, w.dev.ID, models.RoleDeveloper)
	w.memberships.set(w.project.ID, w.designer.ID, models.RoleDesigner)

	w.board = &models.Board{ID: uuid.New(), ProjectID: w.project.ID, Name: "Backlog"}
	w.store.boards[w.board.ID] = w.board

	w.card = &models.Card{ID: uuid.New(), BoardID: w.board.ID, Title: "Ship it"}
	w.store.cards[w.card.ID] = w.card

	w.subtask = &models.Subtask{ID: uuid.New(), CardID: w.card.ID, Title: "Write docs"}
	w.store.subtasks[w.subtask.ID] = w.subtask

	w.comment = &models.Comment{
		ID:       uuid.New(),
		Target:   models.CommentTarget{Kind: models.CommentTargetCard, ID: w.card.ID},
		AuthorID: w.dev.ID,
		Body:     "on it",
	}
	w.store.comments[w.comment.ID] = w.comment

	w.timeLog = &models.TimeLog{ID: uuid.New(), CardID: w.card.ID, UserID: w.dev.ID}
	w.store.timeLogs[w.timeLog.ID] = w.timeLog

	w.assignment = &models.CardAssignment{ID: uuid.New(), CardID: w.card.ID, UserID: w.dev.ID}
	w.store.assignments[w.assignment.ID] = w.assignment

	w.review = &models.CardReview{ID: uuid.New(), CardID: w.card.ID, ReviewerID: w.lead.ID, Status: models.ReviewStatusApproved}
	w.store.reviews[w.review.ID] = w.review

	return w
}

func (w *world) evaluator() *Evaluator {
	return NewEvaluator(w.memberships, w.store)
}
