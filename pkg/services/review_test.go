package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskhive-io/taskhive-engine/pkg/apperrors"
	"github.com/taskhive-io/taskhive-engine/pkg/models"
)

func reviewFixture(t *testing.T) (*reviewService, *mockReviewRepo, *mockAssignmentRepo, *mockNotificationRepo, *models.Card) {
	t.Helper()
	card := &models.Card{ID: uuid.New(), Title: "Ship it"}
	reviews := newMockReviewRepo()
	assignments := &mockAssignmentRepo{byCard: map[uuid.UUID][]*models.CardAssignment{}}
	notifications := &mockNotificationRepo{}
	svc := NewReviewService(reviews, &mockCardRepo{card: card}, assignments, notifications, zap.NewNop()).(*reviewService)
	return svc, reviews, assignments, notifications, card
}

func TestReviewSubmit_NotifiesAssignees(t *testing.T) {
	svc, _, assignments, notifications, card := reviewFixture(t)
	dev1, dev2 := uuid.New(), uuid.New()
	assignments.byCard[card.ID] = []*models.CardAssignment{
		{CardID: card.ID, UserID: dev1},
		{CardID: card.ID, UserID: dev2},
	}

	review, err := svc.Submit(context.Background(), card.ID, uuid.New(), models.ReviewStatusApproved, "lgtm")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusApproved, review.Status)

	require.Len(t, notifications.created, 2)
	assert.Equal(t, models.NotificationCardReviewed, notifications.created[0].Type)
	assert.ElementsMatch(t, []uuid.UUID{dev1, dev2},
		[]uuid.UUID{notifications.created[0].UserID, notifications.created[1].UserID})
}

// A failed notification write must never fail the review itself.
func TestReviewSubmit_NotificationFailureSwallowed(t *testing.T) {
	svc, reviews, assignments, notifications, card := reviewFixture(t)
	assignments.byCard[card.ID] = []*models.CardAssignment{{CardID: card.ID, UserID: uuid.New()}}
	notifications.createErr = errors.New("disk full")

	review, err := svc.Submit(context.Background(), card.ID, uuid.New(), models.ReviewStatusRejected, "")
	require.NoError(t, err)
	assert.Contains(t, reviews.reviews, review.ID)
}

func TestReviewSubmit_InvalidStatus(t *testing.T) {
	svc, _, _, _, card := reviewFixture(t)
	_, err := svc.Submit(context.Background(), card.ID, uuid.New(), "maybe", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestReviewAmend_WithinWindow(t *testing.T) {
	svc, reviews, _, _, _ := reviewFixture(t)
	reviewer := uuid.New()
	submitted := time.Now()
	review := &models.CardReview{ID: uuid.New(), ReviewerID: reviewer, Status: models.ReviewStatusApproved, CreatedAt: submitted}
	reviews.reviews[review.ID] = review

	svc.now = func() time.Time { return submitted.Add(models.AmendWindow - time.Minute) }

	amended, err := svc.Amend(context.Background(), review.ID, reviewer, models.ReviewStatusRejected, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.ReviewStatusRejected, amended.Status)
	assert.Equal(t, 1, reviews.amends)
}

func TestReviewAmend_WindowClosed(t *testing.T) {
	svc, reviews, _, _, _ := reviewFixture(t)
	reviewer := uuid.New()
	submitted := time.Now()
	review := &models.CardReview{ID: uuid.New(), ReviewerID: reviewer, Status: models.ReviewStatusApproved, CreatedAt: submitted}
	reviews.reviews[review.ID] = review

	svc.now = func() time.Time { return submitted.Add(models.AmendWindow + time.Second) }

	_, err := svc.Amend(context.Background(), review.ID, reviewer, models.ReviewStatusRejected, "")
	assert.ErrorIs(t, err, apperrors.ErrReviewWindowClosed)
	assert.Equal(t, 0, reviews.amends)
}

func TestReviewAmend_OnlyReviewer(t *testing.T) {
	svc, reviews, _, _, _ := reviewFixture(t)
	review := &models.CardReview{ID: uuid.New(), ReviewerID: uuid.New(), Status: models.ReviewStatusApproved, CreatedAt: time.Now()}
	reviews.reviews[review.ID] = review

	_, err := svc.Amend(context.Background(), review.ID, uuid.New(), models.ReviewStatusRejected, "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
