package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// ReportService builds the read-only dashboard aggregates. Every method is
// idempotent and safe to call concurrently.
type ReportService interface {
	// ProjectReport aggregates card counts, completion and health for one
	// project as of now.
	ProjectReport(ctx context.Context, projectID uuid.UUID) (*models.ProjectReport, error)

	// Workloads aggregates per-user assignment figures over a date range,
	// optionally scoped to one project.
	Workloads(ctx context.Context, projectID *uuid.UUID, from, to time.Time) ([]models.UserWorkload, error)
}

type reportService struct {
	repo     repositories.ReportRepository
	projects repositories.ProjectRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new report service.
func NewReportService(repo repositories.ReportRepository, projects repositories.ProjectRepository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, projects: projects, logger: logger, now: time.Now}
}

func (s *reportService) ProjectReport(ctx context.Context, projectID uuid.UUID) (*models.ProjectReport, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	now := s.now()

	byStatus, err := s.repo.CardCountsByStatus(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.repo.CardCountsByPriority(ctx, projectID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.repo.OverdueCardCount(ctx, projectID, now)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}
	rate := CompletionRate(byStatus[models.CardStatusDone], total)
	days := project.DaysRemaining(now)

	return &models.ProjectReport{
		ProjectID:      project.ID,
		ProjectName:    project.Name,
		TotalCards:     total,
		ByStatus:       byStatus,
		ByPriority:     byPriority,
		OverdueCards:   overdue,
		CompletionRate: rate,
		DaysRemaining:  days,
		Health:         ClassifyHealth(days, overdue, rate),
	}, nil
}

func (s *reportService) Workloads(ctx context.Context, projectID *uuid.UUID, from, to time.Time) ([]models.UserWorkload, error) {
	rows, err := s.repo.Workloads(ctx, projectID, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]models.UserWorkload, 0, len(rows))
	for _, r := range rows {
		total := r.Assigned + r.InProgress + r.Completed
		out = append(out, models.UserWorkload{
			UserID:         r.UserID,
			UserName:       r.UserName,
			Assigned:       r.Assigned,
			InProgress:     r.InProgress,
			Completed:      r.Completed,
			HoursLogged:    round2(float64(r.MinutesSum) / 60),
			CompletionRate: CompletionRate(r.Completed, total),
		})
	}
	return out, nil
}

// CompletionRate returns completed/total as a percentage rounded to two
// decimal places. An empty set reports 0, not NaN.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(completed) / float64(total) * 100)
}

// ClassifyHealth buckets a project, first match wins. A blown deadline
// outranks everything else, even full completion.
func ClassifyHealth(daysRemaining, overdueCards int, completionRate float64) string {
	switch {
	case daysRemaining < 0:
		return models.HealthOverdue
	case overdueCards > 5:
		return models.HealthAtRisk
	case completionRate >= 80:
		return models.HealthOnTrack
	default:
		return models.HealthNeedsAttention
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Ensure reportService implements ReportService at compile time.
var _ ReportService = (*reportService)(nil)
