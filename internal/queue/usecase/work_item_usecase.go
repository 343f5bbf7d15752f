package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

type workItemUseCase struct {
	repo WorkItemRepository
	now  func() time.Time
}

// Enqueue stores a new pending item. The repository joins a transaction carried by ctx,
// so the item commits or rolls back with the caller's other writes.
func (w *workItemUseCase) Enqueue(
	ctx context.Context,
	eventType string,
	payload string,
) (*queueDomain.WorkItem, error) {
	item, err := queueDomain.NewWorkItem(eventType, payload, w.now().UTC())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create work item")
	}
	if err := w.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (w *workItemUseCase) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	return w.repo.Get(ctx, id)
}

func (w *workItemUseCase) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.Wrapf(queueDomain.ErrInvalidStatus, "%q", *filter.Status)
	}
	return w.repo.List(ctx, filter)
}

func (w *workItemUseCase) Stats(ctx context.Context) (map[queueDomain.Status]int, error) {
	counts, err := w.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	for _, status := range []queueDomain.Status{
		queueDomain.StatusPending,
		queueDomain.StatusProcessing,
		queueDomain.StatusCompleted,
		queueDomain.StatusFailed,
	} {
		if _, ok := counts[status]; !ok {
			counts[status] = 0
		}
	}
	return counts, nil
}

func (w *workItemUseCase) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	if days < 0 {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "days must not be negative, got %d", days)
	}
	cutoff := w.now().UTC().AddDate(0, 0, -days)
	return w.repo.DeleteFinishedBefore(ctx, cutoff)
}

// NewWorkItemUseCase creates the queue producer and inspection use case.
func NewWorkItemUseCase(repo WorkItemRepository) WorkItemUseCase {
	return &workItemUseCase{repo: repo, now: time.Now}
}
