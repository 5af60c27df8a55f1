package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

func TestTimeLogCreate_EndBeforeStart(t *testing.T) {
	svc := NewTimeLogService(newMockTimeLogRepo(), &mockSubtaskRepo{}, zap.NewNop())

	started := time.Now()
	ended := started.Add(-time.Minute)
	_, err := svc.Create(context.Background(), uuid.New(), nil, uuid.New(), started, &ended, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// A subtask under a different card would never resolve for authorization,
// so the service refuses to record it.
func TestTimeLogCreate_SubtaskFromOtherCard(t *testing.T) {
	subtask := &models.Subtask{ID: uuid.New(), CardID: uuid.New()}
	svc := NewTimeLogService(newMockTimeLogRepo(), &mockSubtaskRepo{subtask: subtask}, zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), &subtask.ID, uuid.New(), time.Now(), nil, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestTimeLogFinish(t *testing.T) {
	repo := newMockTimeLogRepo()
	svc := NewTimeLogService(repo, &mockSubtaskRepo{}, zap.NewNop())

	started := time.Now()
	open := &models.TimeLog{ID: uuid.New(), StartedAt: started}
	repo.logs[open.ID] = open

	t.Run("closes an open session", func(t *testing.T) {
		tl, err := svc.Finish(context.Background(), open.ID, started.Add(30*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, tl.EndedAt)
	})

	t.Run("already ended", func(t *testing.T) {
		_, err := svc.Finish(context.Background(), open.ID, started.Add(time.Hour))
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("end before start", func(t *testing.T) {
		other := &models.TimeLog{ID: uuid.New(), StartedAt: started}
		repo.logs[other.ID] = other
		_, err := svc.Finish(context.Background(), other.ID, started.Add(-time.Minute))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
