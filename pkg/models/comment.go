package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommentTargetKind identifies which entity a comment is attached to.
type CommentTargetKind string

// Comment target kinds.
const (
	CommentTargetCard    CommentTargetKind = "card"
	CommentTargetSubtask CommentTargetKind = "subtask"
)

// CommentTarget is a tagged union: a comment is attached to exactly one of
// a card or a subtask. Constructing it through NewCommentTarget makes the
// both-set and both-null states unrepresentable; rows read back from storage
// that violate the pairing fail TargetFromColumns and are treated as
// unresolvable by the authorization locator.
type CommentTarget struct {
	Kind CommentTargetKind `json:"kind"`
	ID   uuid.UUID         `json:"id"`
}

// NewCommentTarget builds a validated comment target.
func NewCommentTarget(kind CommentTargetKind, id uuid.UUID) (CommentTarget, error) {
	if kind != CommentTargetCard && kind != CommentTargetSubtask {
		return CommentTarget{}, fmt.Errorf("invalid comment target kind: %q", kind)
	}
	if id == uuid.Nil {
		return CommentTarget{}, fmt.Errorf("comment target id is required")
	}
	return CommentTarget{Kind: kind, ID: id}, nil
}

// TargetFromColumns reconstructs a CommentTarget from the two nullable
// foreign-key columns. Exactly one must be set.
func TargetFromColumns(cardID, subtaskID *uuid.UUID) (CommentTarget, error) {
	switch {
	case cardID != nil && subtaskID != nil:
		return CommentTarget{}, fmt.Errorf("comment references both a card and a subtask")
	case cardID != nil:
		return CommentTarget{Kind: CommentTargetCard, ID: *cardID}, nil
	case subtaskID != nil:
		return CommentTarget{Kind: CommentTargetSubtask, ID: *subtaskID}, nil
	default:
		return CommentTarget{}, fmt.Errorf("comment references neither a card nor a subtask")
	}
}

// Columns splits the target back into the nullable column pair for storage.
func (t CommentTarget) Columns() (cardID, subtaskID *uuid.UUID) {
	id := t.ID
	switch t.Kind {
	case CommentTargetCard:
		return &id, nil
	case CommentTargetSubtask:
		return nil, &id
	}
	return nil, nil
}

// Comment is a note attached to a card or subtask, owned by its author.
type Comment struct {
	ID        uuid.UUID     `json:"id"`
	Target    CommentTarget `json:"target"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
