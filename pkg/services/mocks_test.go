package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// mockProjectRepo lets tests script create/update outcomes per call.
type mockProjectRepo struct {
	repositories.ProjectRepository

	createFn func(ctx context.Context, p *models.Project) error
	updateFn func(ctx context.Context, p *models.Project) error
	getFn    func(ctx context.Context, id uuid.UUID) (*models.Project, error)

	createdSlugs []string
	updatedSlugs []string
}

func (m *mockProjectRepo) Create(ctx context.Context, p *models.Project) error {
	err := m.createFn(ctx, p)
	if err == nil {
		m.createdSlugs = append(m.createdSlugs, p.Slug)
	}
	return err
}

func (m *mockProjectRepo) Update(ctx context.Context, p *models.Project) error {
	err := m.updateFn(ctx, p)
	if err == nil {
		m.updatedSlugs = append(m.updatedSlugs, p.Slug)
	}
	return err
}

func (m *mockProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return m.getFn(ctx, id)
}

// mockCardRepo serves a fixed card.
type mockCardRepo struct {
	repositories.CardRepository
	card *models.Card
}

func (m *mockCardRepo) Get(_ context.Context, id uuid.UUID) (*models.Card, error) {
	if m.card != nil && m.card.ID == id {
		return m.card, nil
	}
	return nil, apperrors.ErrNotFound
}

// mockReviewRepo stores reviews in memory.
type mockReviewRepo struct {
	repositories.ReviewRepository
	reviews map[uuid.UUID]*models.CardReview
	amends  int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[uuid.UUID]*models.CardReview)}
}

func (m *mockReviewRepo) Create(_ context.Context, r *models.CardReview) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.reviews[r.ID] = r
	return nil
}

func (m *mockReviewRepo) Get(_ context.Context, id uuid.UUID) (*models.CardReview, error) {
	if r, ok := m.reviews[id]; ok {
		return r, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockReviewRepo) Amend(_ context.Context, id uuid.UUID, status, notes string) error {
	r, ok := m.reviews[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	r.Status = status
	r.Notes = notes
	m.amends++
	return nil
}

// mockAssignmentRepo serves a fixed assignment list per card.
type mockAssignmentRepo struct {
	repositories.AssignmentRepository
	byCard  map[uuid.UUID][]*models.CardAssignment
	listErr error
}

func (m *mockAssignmentRepo) ListByCard(_ context.Context, cardID uuid.UUID) ([]*models.CardAssignment, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.byCard[cardID], nil
}

// mockNotificationRepo records writes and can be made to fail.
type mockNotificationRepo struct {
	repositories.NotificationRepository
	created   []*models.Notification
	createErr error
}

func (m *mockNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, n)
	return nil
}

// mockMembershipRepo stores memberships keyed by (project, user).
type mockMembershipRepo struct {
	repositories.MembershipRepository
	rows map[string]*models.Membership
}

func newMockMembershipRepo() *mockMembershipRepo {
	return &mockMembershipRepo{rows: make(map[string]*models.Membership)}
}

func membershipKey(projectID, userID uuid.UUID) string {
	return projectID.String() + "|" + userID.String()
}

func (m *mockMembershipRepo) Upsert(_ context.Context, row *models.Membership) error {
	m.rows[membershipKey(row.ProjectID, row.UserID)] = row
	return nil
}

func (m *mockMembershipRepo) Get(_ context.Context, projectID, userID uuid.UUID) (*models.Membership, error) {
	if row, ok := m.rows[membershipKey(projectID, userID)]; ok {
		return row, nil
	}
	return nil, apperrors.ErrNotFound
}

// mockUserRepo serves a fixed set of users.
type mockUserRepo struct {
	repositories.UserRepository
	users map[uuid.UUID]*models.User
}

func (m *mockUserRepo) Get(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrNotFound
}

// mockSubtaskRepo serves a fixed subtask.
type mockSubtaskRepo struct {
	repositories.SubtaskRepository
	subtask *models.Subtask
}

func (m *mockSubtaskRepo) Get(_ context.Context, id uuid.UUID) (*models.Subtask, error) {
	if m.subtask != nil && m.subtask.ID == id {
		return m.subtask, nil
	}
	return nil, apperrors.ErrNotFound
}

// mockTimeLogRepo stores time logs in memory.
type mockTimeLogRepo struct {
	repositories.TimeLogRepository
	logs map[uuid.UUID]*models.TimeLog
}

func newMockTimeLogRepo() *mockTimeLogRepo {
	return &mockTimeLogRepo{logs: make(map[uuid.UUID]*models.TimeLog)}
}

func (m *mockTimeLogRepo) Create(_ context.Context, tl *models.TimeLog) error {
	if tl.ID == uuid.Nil {
		tl.ID = uuid.New()
	}
	m.logs[tl.ID] = tl
	return nil
}

func (m *mockTimeLogRepo) Get(_ context.Context, id uuid.UUID) (*models.TimeLog, error) {
	if tl, ok := m.logs[id]; ok {
		return tl, nil
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockTimeLogRepo) Update(_ context.Context, tl *models.TimeLog) error {
	if _, ok := m.logs[tl.ID]; !ok {
		return apperrors.ErrNotFound
	}
	m.logs[tl.ID] = tl
	return nil
}

// mockReportRepo serves fixed aggregates.
type mockReportRepo struct {
	byStatus   map[string]int
	byPriority map[string]int
	overdue    int
	workloads  []repositories.WorkloadRow
}

func (m *mockReportRepo) CardCountsByStatus(context.Context, uuid.UUID) (map[string]int, error) {
	return m.byStatus, nil
}

func (m *mockReportRepo) CardCountsByPriority(context.Context, uuid.UUID) (map[string]int, error) {
	return m.byPriority, nil
}

func (m *mockReportRepo) OverdueCardCount(context.Context, uuid.UUID, time.Time) (int, error) {
	return m.overdue, nil
}

func (m *mockReportRepo) Workloads(context.Context, *uuid.UUID, time.Time, time.Time) ([]repositories.WorkloadRow, error) {
	return m.workloads, nil
}

var _ repositories.ReportRepository = (*mockReportRepo)(nil)
