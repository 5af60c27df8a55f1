package authz

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

func TestLocate_ChainWalks(t *testing.T) {
	w := newWorld()
	l := NewLocator(w.store)
	ctx := context.Background()

	tests := []struct {
		name      string
		ref       Ref
		wantOwner uuid.UUID
	}{
		{"project", Ref{ResourceProject, w.project.ID}, uuid.Nil},
		{"board", Ref{ResourceBoard, w.board.ID}, uuid.Nil},
		{"card", Ref{ResourceCard, w.card.ID}, uuid.Nil},
		{"subtask", Ref{ResourceSubtask, w.subtask.ID}, uuid.Nil},
		{"comment carries author", Ref{ResourceComment, w.comment.ID}, w.dev.ID},
		{"time log carries user", Ref{ResourceTimeLog, w.timeLog.ID}, w.dev.ID},
		{"assignment carries assignee", Ref{ResourceAssignment, w.assignment.ID}, w.dev.ID},
		{"review carries reviewer", Ref{ResourceReview, w.review.ID}, w.lead.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := l.Locate(ctx, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, w.project.ID, loc.ProjectID)
			assert.Equal(t, tt.wantOwner, loc.OwnerID)
		})
	}
}

func TestLocate_Missing(t *testing.T) {
	w := newWorld()
	l := NewLocator(w.store)
	ctx := context.Background()

	for _, typ := range []ResourceType{
		ResourceProject, ResourceBoard, ResourceCard, ResourceSubtask,
		ResourceComment, ResourceTimeLog, ResourceAssignment, ResourceReview,
	} {
		_, err := l.Locate(ctx, Ref{typ, uuid.New()})
		assert.ErrorIs(t, err, apperrors.ErrNotFound, "type %s", typ)
	}
}

// A dangling chain link (card pointing at a deleted board) surfaces as
// not found, same as a missing leaf.
func TestLocate_BrokenChain(t *testing.T) {
	w := newWorld()
	orphan := &models.Card{ID: uuid.New(), BoardID: uuid.New(), Title: "orphan"}
	w.store.cards[orphan.ID] = orphan
	l := NewLocator(w.store)

	_, err := l.Locate(context.Background(), Ref{ResourceCard, orphan.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLocate_TimeLogLineage(t *testing.T) {
	w := newWorld()
	l := NewLocator(w.store)
	ctx := context.Background()

	// Agreeing lineage resolves.
	agreed := &models.TimeLog{ID: uuid.New(), CardID: w.card.ID, SubtaskID: &w.subtask.ID, UserID: w.dev.ID}
	w.store.timeLogs[agreed.ID] = agreed
	loc, err := l.Locate(ctx, Ref{ResourceTimeLog, agreed.ID})
	require.NoError(t, err)
	assert.Equal(t, w.project.ID, loc.ProjectID)

	// Disagreeing lineage is unresolvable.
	otherCard := &models.Card{ID: uuid.New(), BoardID: w.board.ID}
	w.store.cards[otherCard.ID] = otherCard
	mismatched := &models.TimeLog{ID: uuid.New(), CardID: otherCard.ID, SubtaskID: &w.subtask.ID, UserID: w.dev.ID}
	w.store.timeLogs[mismatched.ID] = mismatched

	_, err = l.Locate(ctx, Ref{ResourceTimeLog, mismatched.ID})
	assert.ErrorIs(t, err, apperrors.ErrUnresolvableResource)
}

func TestLocate_CommentTargets(t *testing.T) {
	w := newWorld()
	l := NewLocator(w.store)
	ctx := context.Background()

	onSubtask := &models.Comment{
		ID:       uuid.New(),
		Target:   models.CommentTarget{Kind: models.CommentTargetSubtask, ID: w.subtask.ID},
		AuthorID: w.designer.ID,
	}
	w.store.comments[onSubtask.ID] = onSubtask

	loc, err := l.Locate(ctx, Ref{ResourceComment, onSubtask.ID})
	require.NoError(t, err)
	assert.Equal(t, w.project.ID, loc.ProjectID)
	assert.Equal(t, w.designer.ID, loc.OwnerID)

	empty := &models.Comment{ID: uuid.New(), AuthorID: w.dev.ID}
	w.store.comments[empty.ID] = empty
	_, err = l.Locate(ctx, Ref{ResourceComment, empty.ID})
	assert.ErrorIs(t, err, apperrors.ErrUnresolvableResource)
}

func TestLocate_UnknownType(t *testing.T) {
	w := newWorld()
	l := NewLocator(w.store)

	_, err := l.Locate(context.Background(), Ref{Type: ResourceType("gadget"), ID: uuid.New()})
	assert.ErrorIs(t, err, apperrors.ErrUnresolvableResource)
}
