package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/authz"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

// ResourceStore bundles the per-entity repositories into the single read
// surface the authorization locator needs.
type ResourceStore struct {
	projects    ProjectRepository
	boards      BoardRepository
	cards       CardRepository
	subtasks    SubtaskRepository
	comments    CommentRepository
	timeLogs    TimeLogRepository
	assignments AssignmentRepository
	reviews     ReviewRepository
}

// NewResourceStore creates a resource store over the given repositories.
func NewResourceStore(
	projects ProjectRepository,
	boards BoardRepository,
	cards CardRepository,
	subtasks SubtaskRepository,
	comments CommentRepository,
	timeLogs TimeLogRepository,
	assignments AssignmentRepository,
	reviews ReviewRepository,
) *ResourceStore {
	return &ResourceStore{
		projects:    projects,
		boards:      boards,
		cards:       cards,
		subtasks:    subtasks,
		comments:    comments,
		timeLogs:    timeLogs,
		assignments: assignments,
		reviews:     reviews,
	}
}

func (s *ResourceStore) Project(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projects.Get(ctx, id)
}

func (s *ResourceStore) Board(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	return s.boards.Get(ctx, id)
}

func (s *ResourceStore) Card(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	return s.cards.Get(ctx, id)
}

func (s *ResourceStore) Subtask(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	return s.subtasks.Get(ctx, id)
}

func (s *ResourceStore) Comment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.comments.Get(ctx, id)
}

func (s *ResourceStore) TimeLog(ctx context.Context, id uuid.UUID) (*models.TimeLog, error) {
	return s.timeLogs.Get(ctx, id)
}

func (s *ResourceStore) Assignment(ctx context.Context, id uuid.UUID) (*models.CardAssignment, error) {
	return s.assignments.Get(ctx, id)
}

func (s *ResourceStore) Review(ctx context.Context, id uuid.UUID) (*models.CardReview, error) {
	return s.reviews.Get(ctx, id)
}

// Ensure ResourceStore implements authz.ResourceStore at compile time.
var _ authz.ResourceStore = (*ResourceStore)(nil)
