package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

func newTestWorkItemUseCase(repo WorkItemRepository, now time.Time) *workItemUseCase {
	return &workItemUseCase{repo: repo, now: func() time.Time { return now }}
}

func TestWorkItemUseCase_Enqueue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Success_CreatesPendingItem", func(t *testing.T) {
		repo := &mockWorkItemRepository{}
		repo.On("Create", ctx, mock.MatchedBy(func(item *queueDomain.WorkItem) bool {
			return item.Status == queueDomain.StatusPending &&
				item.EventType == "case.transfer.same_jurisdiction" &&
				item.Payload == `{"a":1}` &&
				item.LockedBy == nil &&
				item.LockedUntil == nil &&
				item.CreatedAt.Equal(now)
		})).Return(nil)

		item, err := newTestWorkItemUseCase(repo, now).Enqueue(ctx, "case.transfer.same_jurisdiction", `{"a":1}`)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, item.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		repo := &mockWorkItemRepository{}
		repo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

		item, err := newTestWorkItemUseCase(repo, now).Enqueue(ctx, "e", "{}")
		assert.Nil(t, item)
		assert.EqualError(t, err, "db down")
	})
}

func TestWorkItemUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Error_InvalidStatus", func(t *testing.T) {
		repo := &mockWorkItemRepository{}
		bogus := queueDomain.Status("queued")

		_, err := newTestWorkItemUseCase(repo, time.Now()).List(ctx, queueDomain.ListFilter{Status: &bogus})
		assert.ErrorIs(t, err, queueDomain.ErrInvalidStatus)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("Success_Delegates", func(t *testing.T) {
		repo := &mockWorkItemRepository{}
		failed := queueDomain.StatusFailed
		filter := queueDomain.ListFilter{Status: &failed, Limit: 10}
		repo.On("List", ctx, filter).Return([]*queueDomain.WorkItem{{EventType: "e"}}, nil)

		items, err := newTestWorkItemUseCase(repo, time.Now()).List(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestWorkItemUseCase_Stats(t *testing.T) {
	ctx := context.Background()
	repo := &mockWorkItemRepository{}
	repo.On("CountByStatus", ctx).Return(map[queueDomain.Status]int{queueDomain.StatusPending: 3}, nil)

	counts, err := newTestWorkItemUseCase(repo, time.Now()).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[queueDomain.Status]int{
		queueDomain.StatusPending:    3,
		queueDomain.StatusProcessing: 0,
		queueDomain.StatusCompleted:  0,
		queueDomain.StatusFailed:     0,
	}, counts)
}

func TestWorkItemUseCase_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	t.Run("Success_ComputesCutoff", func(t *testing.T) {
		repo := &mockWorkItemRepository{}
		repo.On("DeleteFinishedBefore", ctx, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)).Return(int64(12), nil)

		count, err := newTestWorkItemUseCase(repo, now).DeleteOlderThan(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
		repo.AssertExpectations(t)
	})

	t.Run("Error_NegativeDays", func(t *testing.T) {
		repo := &mockWorkItemRepository{}

		_, err := newTestWorkItemUseCase(repo, now).DeleteOlderThan(ctx, -1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
