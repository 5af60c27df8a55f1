package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
	"github.com/taskhive-io/taskhive-engine/pkg/repositories"
)

func TestProjectCreate_SlugFromName(t *testing.T) {
	repo := &mockProjectRepo{
		createFn: func(context.Context, *models.Project) error { return nil },
	}
	svc := NewProjectService(repo, zap.NewNop())

	p, err := svc.Create(context.Background(), "My New Project", "", nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "my-new-project", p.Slug)
	assert.Equal(t, []string{"my-new-project"}, repo.createdSlugs)
}

// When the unique index rejects the base slug, the service walks the
// numbered suffixes until the write lands.
func TestProjectCreate_SlugCollisionRetries(t *testing.T) {
	rejections := 2
	repo := &mockProjectRepo{}
	repo.createFn = func(context.Context, *models.Project) error {
		if rejections > 0 {
			rejections--
			return repositories.ErrSlugTaken
		}
		return nil
	}
	svc := NewProjectService(repo, zap.NewNop())

	p, err := svc.Create(context.Background(), "Apollo", "", nil, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "apollo-2", p.Slug)
	assert.Equal(t, []string{"apollo-2"}, repo.createdSlugs, "only the winning write records a slug")
}

func TestProjectCreate_SlugExhausted(t *testing.T) {
	repo := &mockProjectRepo{
		createFn: func(context.Context, *models.Project) error { return repositories.ErrSlugTaken },
	}
	svc := NewProjectService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), "Apollo", "", nil, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSlugExhausted)
}

// Saving a project without renaming it must not touch the slug, so
// repeated saves never drift to apollo-1, apollo-2, ...
func TestProjectUpdate_UnchangedNameKeepsSlug(t *testing.T) {
	id := uuid.New()
	existing := &models.Project{ID: id, Name: "Apollo", Slug: "apollo"}
	repo := &mockProjectRepo{
		getFn:    func(context.Context, uuid.UUID) (*models.Project, error) { return existing, nil },
		updateFn: func(context.Context, *models.Project) error { return nil },
	}
	svc := NewProjectService(repo, zap.NewNop())

	p, err := svc.Update(context.Background(), id, "Apollo", "new description", nil)
	require.NoError(t, err)
	assert.Equal(t, "apollo", p.Slug)
	assert.Equal(t, "new description", p.Description)
}

func TestProjectUpdate_RenameRegeneratesSlug(t *testing.T) {
	id := uuid.New()
	existing := &models.Project{ID: id, Name: "Apollo", Slug: "apollo"}
	repo := &mockProjectRepo{
		getFn:    func(context.Context, uuid.UUID) (*models.Project, error) { return existing, nil },
		updateFn: func(context.Context, *models.Project) error { return nil },
	}
	svc := NewProjectService(repo, zap.NewNop())

	p, err := svc.Update(context.Background(), id, "Artemis Program", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "artemis-program", p.Slug)
}

func TestProjectUpdate_RenameCollisionRetries(t *testing.T) {
	id := uuid.New()
	existing := &models.Project{ID: id, Name: "Apollo", Slug: "apollo"}
	rejections := 1
	repo := &mockProjectRepo{
		getFn: func(context.Context, uuid.UUID) (*models.Project, error) { return existing, nil },
	}
	repo.updateFn = func(context.Context, *models.Project) error {
		if rejections > 0 {
			rejections--
			return repositories.ErrSlugTaken
		}
		return nil
	}
	svc := NewProjectService(repo, zap.NewNop())

	p, err := svc.Update(context.Background(), id, "Artemis", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "artemis-1", p.Slug)
}

func TestProjectCreate_RequiresName(t *testing.T) {
	svc := NewProjectService(&mockProjectRepo{}, zap.NewNop())
	_, err := svc.Create(context.Background(), "", "", nil, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
