package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

func TestEvaluate_RuleTable(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	tests := []struct {
		name   string
		actor  Actor
		action Action
		ref    Ref
		want   Decision
	}{
		// Project
		{"lead views project", w.lead, ActionView, Ref{ResourceProject, w.project.ID}, Allow},
		{"dev views project", w.dev, ActionView, Ref{ResourceProject, w.project.ID}, Allow},
		{"outsider views project", w.outsider, ActionView, Ref{ResourceProject, w.project.ID}, Deny},
		{"lead updates project", w.lead, ActionUpdate, Ref{ResourceProject, w.project.ID}, Deny},
		{"lead deletes project", w.lead, ActionDelete, Ref{ResourceProject, w.project.ID}, Deny},

		// Board
		{"designer views board", w.designer, ActionView, Ref{ResourceBoard, w.board.ID}, Allow},
		{"outsider views board", w.outsider, ActionView, Ref{ResourceBoard, w.board.ID}, Deny},
		{"lead updates board", w.lead, ActionUpdate, Ref{ResourceBoard, w.board.ID}, Allow},
		{"dev updates board", w.dev, ActionUpdate, Ref{ResourceBoard, w.board.ID}, Deny},
		{"lead deletes board", w.lead, ActionDelete, Ref{ResourceBoard, w.board.ID}, Allow},
		{"designer deletes board", w.designer, ActionDelete, Ref{ResourceBoard, w.board.ID}, Deny},

		// Card
		{"dev views card", w.dev, ActionView, Ref{ResourceCard, w.card.ID}, Allow},
		{"outsider views card", w.outsider, ActionView, Ref{ResourceCard, w.card.ID}, Deny},
		{"lead updates card", w.lead, ActionUpdate, Ref{ResourceCard, w.card.ID}, Allow},
		{"dev updates card", w.dev, ActionUpdate, Ref{ResourceCard, w.card.ID}, Deny},
		{"dev deletes card", w.dev, ActionDelete, Ref{ResourceCard, w.card.ID}, Deny},
		{"lead deletes card", w.lead, ActionDelete, Ref{ResourceCard, w.card.ID}, Allow},

		// Subtask: every membership role may act
		{"dev updates subtask", w.dev, ActionUpdate, Ref{ResourceSubtask, w.subtask.ID}, Allow},
		{"designer deletes subtask", w.designer, ActionDelete, Ref{ResourceSubtask, w.subtask.ID}, Allow},
		{"outsider updates subtask", w.outsider, ActionUpdate, Ref{ResourceSubtask, w.subtask.ID}, Deny},

		// Comment: author or lead mutate, members view
		{"designer views comment", w.designer, ActionView, Ref{ResourceComment, w.comment.ID}, Allow},
		{"author updates own comment", w.dev, ActionUpdate, Ref{ResourceComment, w.comment.ID}, Allow},
		{"lead updates someone's comment", w.lead, ActionUpdate, Ref{ResourceComment, w.comment.ID}, Allow},
		{"designer updates someone's comment", w.designer, ActionUpdate, Ref{ResourceComment, w.comment.ID}, Deny},
		{"author deletes own comment", w.dev, ActionDelete, Ref{ResourceComment, w.comment.ID}, Allow},

		// TimeLog: owner or lead mutate
		{"owner updates own time log", w.dev, ActionUpdate, Ref{ResourceTimeLog, w.timeLog.ID}, Allow},
		{"lead updates time log", w.lead, ActionUpdate, Ref{ResourceTimeLog, w.timeLog.ID}, Allow},
		{"designer updates time log", w.designer, ActionUpdate, Ref{ResourceTimeLog, w.timeLog.ID}, Deny},
		{"owner deletes own time log", w.dev, ActionDelete, Ref{ResourceTimeLog, w.timeLog.ID}, Allow},

		// Assignment: assignee may update own status but never delete
		{"assignee updates own assignment", w.dev, ActionUpdate, Ref{ResourceAssignment, w.assignment.ID}, Allow},
		{"lead updates assignment", w.lead, ActionUpdate, Ref{ResourceAssignment, w.assignment.ID}, Allow},
		{"designer updates assignment", w.designer, ActionUpdate, Ref{ResourceAssignment, w.assignment.ID}, Deny},
		{"assignee deletes own assignment", w.dev, ActionDelete, Ref{ResourceAssignment, w.assignment.ID}, Deny},
		{"lead deletes assignment", w.lead, ActionDelete, Ref{ResourceAssignment, w.assignment.ID}, Allow},
		{"member views assignment", w.designer, ActionView, Ref{ResourceAssignment, w.assignment.ID}, Allow},

		// Review: lead or reviewer view, reviewer amends, nobody deletes
		{"lead views review", w.lead, ActionView, Ref{ResourceReview, w.review.ID}, Allow},
		{"dev views review", w.dev, ActionView, Ref{ResourceReview, w.review.ID}, Deny},
		{"reviewer amends own review", w.lead, ActionUpdate, Ref{ResourceReview, w.review.ID}, Allow},
		{"dev amends review", w.dev, ActionUpdate, Ref{ResourceReview, w.review.ID}, Deny},
		{"lead deletes own review", w.lead, ActionDelete, Ref{ResourceReview, w.review.ID}, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(ctx, tt.actor, tt.action, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Admin bypass holds for every action on every resource, including ones
// that do not exist or cannot be resolved.
func TestEvaluate_AdminBypass(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	refs := []Ref{
		{ResourceProject, w.project.ID},
		{ResourceBoard, w.board.ID},
		{ResourceCard, w.card.ID},
		{ResourceSubtask, w.subtask.ID},
		{ResourceComment, w.comment.ID},
		{ResourceTimeLog, w.timeLog.ID},
		{ResourceAssignment, w.assignment.ID},
		{ResourceReview, w.review.ID},
		{ResourceCard, uuid.New()}, // does not exist
	}
	for _, ref := range refs {
		for _, action := range []Action{ActionView, ActionCreate, ActionUpdate, ActionDelete} {
			d, err := e.Evaluate(ctx, w.admin, action, ref)
			require.NoError(t, err)
			assert.Equal(t, Allow, d, "admin %s on %s", action, ref.Type)
		}
	}
}

func TestEvaluate_MissingResource(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	d, err := e.Evaluate(ctx, w.lead, ActionView, Ref{ResourceCard, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, NotFound, d)
}

// A comment whose stored target is broken must deny non-admins while the
// admin bypass still allows, since admins never resolve the chain.
func TestEvaluate_AmbiguousComment(t *testing.T) {
	w := newWorld()
	broken := &models.Comment{
		ID:       uuid.New(),
		Target:   models.CommentTarget{}, // neither card nor subtask
		AuthorID: w.lead.ID,
	}
	w.store.comments[broken.ID] = broken
	e := w.evaluator()
	ctx := context.Background()

	ref := Ref{ResourceComment, broken.ID}

	d, err := e.Evaluate(ctx, w.lead, ActionUpdate, ref)
	require.NoError(t, err)
	assert.Equal(t, Deny, d, "author denied despite owning the broken record")

	d, err = e.Evaluate(ctx, w.admin, ActionUpdate, ref)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

// A time log whose card disagrees with its subtask's lineage is
// unresolvable and denies.
func TestEvaluate_MismatchedTimeLog(t *testing.T) {
	w := newWorld()
	otherCard := &models.Card{ID: uuid.New(), BoardID: w.board.ID, Title: "Other"}
	w.store.cards[otherCard.ID] = otherCard

	mismatched := &models.TimeLog{
		ID:        uuid.New(),
		CardID:    otherCard.ID,
		SubtaskID: &w.subtask.ID, // subtask belongs to w.card, not otherCard
		UserID:    w.dev.ID,
	}
	w.store.timeLogs[mismatched.ID] = mismatched
	e := w.evaluator()
	ctx := context.Background()

	d, err := e.Evaluate(ctx, w.dev, ActionUpdate, Ref{ResourceTimeLog, mismatched.ID})
	require.NoError(t, err)
	assert.Equal(t, Deny, d)

	d, err = e.Evaluate(ctx, w.admin, ActionDelete, Ref{ResourceTimeLog, mismatched.ID})
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

func TestEvaluateCreate(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	boardRef := Ref{ResourceBoard, w.board.ID}
	cardRef := Ref{ResourceCard, w.card.ID}
	projectRef := Ref{ResourceProject, w.project.ID}

	tests := []struct {
		name   string
		actor  Actor
		typ    ResourceType
		parent Ref
		want   Decision
	}{
		{"admin creates project", w.admin, ResourceProject, Ref{}, Allow},
		{"lead creates project", w.lead, ResourceProject, Ref{}, Deny},
		{"admin creates board", w.admin, ResourceBoard, projectRef, Allow},
		{"lead creates board", w.lead, ResourceBoard, projectRef, Deny},
		{"lead creates card", w.lead, ResourceCard, boardRef, Allow},
		{"dev creates card", w.dev, ResourceCard, boardRef, Deny},
		{"dev creates subtask", w.dev, ResourceSubtask, cardRef, Allow},
		{"outsider creates subtask", w.outsider, ResourceSubtask, cardRef, Deny},
		{"designer creates comment", w.designer, ResourceComment, cardRef, Allow},
		{"dev creates time log", w.dev, ResourceTimeLog, cardRef, Allow},
		{"lead assigns", w.lead, ResourceAssignment, cardRef, Allow},
		{"dev assigns", w.dev, ResourceAssignment, cardRef, Deny},
		{"lead submits review", w.lead, ResourceReview, cardRef, Allow},
		{"dev submits review", w.dev, ResourceReview, cardRef, Deny},
		{"lead adds member", w.lead, ResourceMembership, projectRef, Deny},
		{"admin adds member", w.admin, ResourceMembership, projectRef, Allow},
		{"create under missing card", w.dev, ResourceSubtask, Ref{ResourceCard, uuid.New()}, NotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.EvaluateCreate(ctx, tt.actor, tt.typ, tt.parent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateInProject(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	d, err := e.EvaluateInProject(ctx, w.lead, ActionView, ResourceMembership, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, Deny, d, "membership list is admin-only")

	d, err = e.EvaluateInProject(ctx, w.admin, ActionView, ResourceMembership, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)

	d, err = e.EvaluateInProject(ctx, w.dev, ActionView, ResourceBoard, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)
}

// EvaluateInScope runs a rule without an owner: the reviewer's ownership
// alternative must not leak into collection reads.
func TestEvaluateInScope_NoOwnership(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	cardRef := Ref{ResourceCard, w.card.ID}

	d, err := e.EvaluateInScope(ctx, w.lead, ActionView, ResourceReview, cardRef)
	require.NoError(t, err)
	assert.Equal(t, Allow, d)

	d, err = e.EvaluateInScope(ctx, w.dev, ActionView, ResourceReview, cardRef)
	require.NoError(t, err)
	assert.Equal(t, Deny, d)
}

func TestEvaluate_InfrastructureError(t *testing.T) {
	w := newWorld()
	w.memberships.err = errors.New("connection reset")
	e := w.evaluator()
	ctx := context.Background()

	d, err := e.Evaluate(ctx, w.lead, ActionView, Ref{ResourceCard, w.card.ID})
	require.Error(t, err)
	assert.Equal(t, Deny, d)

	assert.False(t, e.Can(ctx, w.lead, ActionView, Ref{ResourceCard, w.card.ID}),
		"Can collapses infrastructure errors to false")
}

// Two users, one per role pair: a team lead can create and review cards;
// a developer on the same project can neither, but can work subtasks,
// comments and their own time.
func TestEvaluate_LeadAndDeveloperScenario(t *testing.T) {
	w := newWorld()
	e := w.evaluator()
	ctx := context.Background()

	boardRef := Ref{ResourceBoard, w.board.ID}
	cardRef := Ref{ResourceCard, w.card.ID}

	// Team lead: full card lifecycle.
	d, err := e.EvaluateCreate(ctx, w.lead, ResourceCard, boardRef)
	assert.True(t, mustDecide(t, d, err))
	assert.True(t, e.Can(ctx, w.lead, ActionUpdate, cardRef))
	d, err = e.EvaluateCreate(ctx, w.lead, ResourceReview, cardRef)
	assert.True(t, mustDecide(t, d, err))
	assert.True(t, e.Can(ctx, w.lead, ActionDelete, cardRef))

	// Developer: no card mutation, no reviews.
	d, err = e.EvaluateCreate(ctx, w.dev, ResourceCard, boardRef)
	assert.False(t, mustDecide(t, d, err))
	assert.False(t, e.Can(ctx, w.dev, ActionUpdate, cardRef))
	d, err = e.EvaluateCreate(ctx, w.dev, ResourceReview, cardRef)
	assert.False(t, mustDecide(t, d, err))

	// But full subtask and self-owned work.
	d, err = e.EvaluateCreate(ctx, w.dev, ResourceSubtask, cardRef)
	assert.True(t, mustDecide(t, d, err))
	assert.True(t, e.Can(ctx, w.dev, ActionUpdate, Ref{ResourceSubtask, w.subtask.ID}))
	assert.True(t, e.Can(ctx, w.dev, ActionUpdate, Ref{ResourceTimeLog, w.timeLog.ID}))
	assert.True(t, e.Can(ctx, w.dev, ActionUpdate, Ref{ResourceAssignment, w.assignment.ID}))
}

func mustDecide(t *testing.T, d Decision, err error) bool {
	t.Helper()
	require.NoError(t, err)
	return d.Allowed()
}
