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

// CommentService manages comments on cards and subtasks.
type CommentService interface {
	Create(ctx context.Context, target models.CommentTarget, authorID uuid.UUID, body string) (*models.Comment, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByTarget(ctx context.Context, target models.CommentTarget) ([]*models.Comment, error)
	Update(ctx context.Context, id uuid.UUID, body string) (*models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentService struct {
	repo   repositories.CommentRepository
	logger *zap.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(repo repositories.CommentRepository, logger *zap.Logger) CommentService {
	return &commentService{repo: repo, logger: logger}
}

func (s *commentService) Create(ctx context.Context, target models.CommentTarget, authorID uuid.UUID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", apperrors.ErrInvalidInput)
	}

	comment := &models.Comment{
		Target:   target,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("Created comment",
		zap.String("comment_id", comment.ID.String()),
		zap.String("target_kind", string(target.Kind)),
		zap.String("target_id", target.ID.String()),
	)
	return comment, nil
}

func (s *commentService) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.repo.Get(ctx, id)
}

func (s *commentService) ListByTarget(ctx context.Context, target models.CommentTarget) ([]*models.Comment, error) {
	return s.repo.ListByTarget(ctx, target)
}

func (s *commentService) Update(ctx context.Context, id uuid.UUID, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", apperrors.ErrInvalidInput)
	}

	comment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	comment.Body = body
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Ensure commentService implements CommentService at compile time.
var _ CommentService = (*commentService)(nil)
