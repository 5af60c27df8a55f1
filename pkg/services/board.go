package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

// BoardService manages the column containers within a project.
type BoardService interface {
	Create(ctx context.Context, projectID uuid.UUID, name string) (*models.Board, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Board, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Board, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Board, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type boardService struct {
	repo   repositories.BoardRepository
	logger *zap.Logger
}

// NewBoardService creates a new board service.
func NewBoardService(repo repositories.BoardRepository, logger *zap.Logger) BoardService {
	return &boardService{repo: repo, logger: logger}
}

func (s *boardService) Create(ctx context.Context, projectID uuid.UUID, name string) (*models.Board, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: board name is required", apperrors.ErrInvalidInput)
	}

	board := &models.Board{
		ProjectID: projectID,
		Name:      name,
	}
	if err := s.repo.Create(ctx, board); err != nil {
		return nil, err
	}

	s.logger.Info("Created board",
		zap.String("board_id", board.ID.String()),
		zap.String("project_id", projectID.String()),
	)
	return board, nil
}

func (s *boardService) Get(ctx context.Context, id uuid.UUID) (*models.Board, error) {
	return s.repo.Get(ctx, id)
}

func (s *boardService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Board, error) {
	return s.repo.ListByProject(ctx, projectID)
}

func (s *boardService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Board, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: board name is required", apperrors.ErrInvalidInput)
	}

	board, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	board.Name = name
	if err := s.repo.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *boardService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure boardService implements BoardService at compile time.
var _ BoardService = (*boardService)(nil)
