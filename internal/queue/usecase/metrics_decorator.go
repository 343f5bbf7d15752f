package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hmcts/et-case-transfer/internal/metrics"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// workItemUseCaseWithMetrics decorates WorkItemUseCase with metrics instrumentation.
type workItemUseCaseWithMetrics struct {
	next    WorkItemUseCase
	metrics metrics.BusinessMetrics
}

// NewWorkItemUseCaseWithMetrics wraps a WorkItemUseCase with metrics recording.
func NewWorkItemUseCaseWithMetrics(useCase WorkItemUseCase, m metrics.BusinessMetrics) WorkItemUseCase {
	return &workItemUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (w *workItemUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	w.metrics.RecordOperation(ctx, "queue", operation, status)
	w.metrics.RecordDuration(ctx, "queue", operation, time.Since(start), status)
}

// Enqueue records metrics for work item creation.
func (w *workItemUseCaseWithMetrics) Enqueue(
	ctx context.Context,
	eventType string,
	payload string,
) (*queueDomain.WorkItem, error) {
	start := time.Now()
	item, err := w.next.Enqueue(ctx, eventType, payload)
	w.record(ctx, "work_item_enqueue", start, err)
	return item, err
}

// Get records metrics for work item retrieval.
func (w *workItemUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	start := time.Now()
	item, err := w.next.Get(ctx, id)
	w.record(ctx, "work_item_get", start, err)
	return item, err
}

// List records metrics for work item listing.
func (w *workItemUseCaseWithMetrics) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	start := time.Now()
	items, err := w.next.List(ctx, filter)
	w.record(ctx, "work_item_list", start, err)
	return items, err
}

// Stats records metrics for queue depth queries.
func (w *workItemUseCaseWithMetrics) Stats(ctx context.Context) (map[queueDomain.Status]int, error) {
	start := time.Now()
	counts, err := w.next.Stats(ctx)
	w.record(ctx, "work_item_stats", start, err)
	return counts, err
}

// DeleteOlderThan records metrics for retention cleanup.
func (w *workItemUseCaseWithMetrics) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	start := time.Now()
	count, err := w.next.DeleteOlderThan(ctx, days)
	w.record(ctx, "work_item_clean", start, err)
	return count, err
}
