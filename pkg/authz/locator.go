package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// ResourceStore is the read surface the locator walks ownership chains
// over. Each lookup returns apperrors.ErrNotFound when the row is missing;
// Comment additionally returns apperrors.ErrUnresolvableResource when the
// stored card/subtask pairing is invalid.
type ResourceStore interface {
	Project(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Board(ctx context.Context, id uuid.UUID) (*models.Board, error)
	Card(ctx context.Context, id uuid.UUID) (*models.Card, error)
	Subtask(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	Comment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	TimeLog(ctx context.Context, id uuid.UUID) (*models.TimeLog, error)
	Assignment(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error)
	Review(ctx context.Context, id uuid.UUID) (*models.CardReview, error)
}

// Locator walks a resource's foreign-key chain up to its owning project.
// Every leaf entity reaches exactly one project; a chain that cannot be
// walked unambiguously yields apperrors.ErrUnresolvableResource, which the
// evaluator treats as a denial, never a grant.
type Locator struct {
	store ResourceStore
}

// NewLocator creates a locator over the given resource store.
func NewLocator(store ResourceStore) *Locator {
	return &Locator{store: store}
}

// Locate resolves the owning project and, where applicable, the owning
// user of the referenced resource.
func (l *Locator) Locate(ctx context.Context, ref Ref) (Located, error) {
	switch ref.Type {
	case ResourceProject:
		p, err := l.store.Project(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return Located{ProjectID: p.ID}, nil

	case ResourceBoard:
		b, err := l.store.Board(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return Located{ProjectID: b.ProjectID}, nil

	case ResourceCard:
		return l.fromCard(ctx, ref.ID, uuid.Nil)

	case ResourceSubtask:
		st, err := l.store.Subtask(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return l.fromCard(ctx, st.CardID, uuid.Nil)

	case ResourceComment:
		c, err := l.store.Comment(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return l.fromCommentTarget(ctx, c.Target, c.AuthorID)

	case ResourceTimeLog:
		return l.fromTimeLog(ctx, ref.ID)

	case ResourceAssignment:
		a, err := l.store.Assignment(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return l.fromCard(ctx, a.CardID, a.UserID)

	case ResourceReview:
		r, err := l.store.Review(ctx, ref.ID)
		if err != nil {
			return Located{}, err
		}
		return l.fromCard(ctx, r.CardID, r.ReviewerID)

	default:
		return Located{}, fmt.Errorf("%w: unknown resource type %q", apperrors.ErrUnresolvableResource, ref.Type)
	}
}

// fromCard walks card -> board -> project, carrying the owner through.
func (l *Locator) fromCard(ctx context.Context, cardID, ownerID uuid.UUID) (Located, error) {
	c, err := l.store.Card(ctx, cardID)
	if err != nil {
		return Located{}, err
	}
	b, err := l.store.Board(ctx, c.BoardID)
	if err != nil {
		return Located{}, err
	}
	return Located{ProjectID: b.ProjectID, OwnerID: ownerID}, nil
}

// fromCommentTarget resolves whichever side of the tagged union is set.
func (l *Locator) fromCommentTarget(ctx context.Context, target models.CommentTarget, authorID uuid.UUID) (Located, error) {
	switch target.Kind {
	case models.CommentTargetCard:
		return l.fromCard(ctx, target.ID, authorID)
	case models.CommentTargetSubtask:
		st, err := l.store.Subtask(ctx, target.ID)
		if err != nil {
			return Located{}, err
		}
		return l.fromCard(ctx, st.CardID, authorID)
	default:
		return Located{}, fmt.Errorf("%w: comment target kind %q", apperrors.ErrUnresolvableResource, target.Kind)
	}
}

// fromTimeLog resolves a time log, verifying that its redundant card
// reference agrees with the subtask lineage. Disagreement means the row's
// ownership is ambiguous and must not resolve.
func (l *Locator) fromTimeLog(ctx context.Context, id uuid.UUID) (Located, error) {
	tl, err := l.store.TimeLog(ctx, id)
	if err != nil {
		return Located{}, err
	}
	if tl.SubtaskID != nil {
		st, err := l.store.Subtask(ctx, *tl.SubtaskID)
		if err != nil {
			return Located{}, err
		}
		if st.CardID != tl.CardID {
			return Located{}, fmt.Errorf("%w: time log card %s disagrees with subtask lineage %s",
				apperrors.ErrUnresolvableResource, tl.CardID, st.CardID)
		}
	}
	return l.fromCard(ctx, tl.CardID, tl.UserID)
}
