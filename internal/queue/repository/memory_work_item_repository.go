package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// MemoryWorkItemRepository is an in-process queue store with the same claim and lease
// semantics as the SQL stores, guarded by a single mutex. The container never selects it;
// consumer and transfer tests in other packages run against it.
type MemoryWorkItemRepository struct {
	mu    sync.Mutex
	items map[uuid.UUID]*queueDomain.WorkItem
}

// Create stores a copy of item.
func (r *MemoryWorkItemRepository) Create(_ context.Context, item *queueDomain.WorkItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = copyWorkItem(item)
	return nil
}

// Claim leases up to req.Limit claimable items, oldest first.
func (r *MemoryWorkItemRepository) Claim(
	_ context.Context,
	req queueDomain.ClaimRequest,
) ([]*queueDomain.WorkItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var candidates []*queueDomain.WorkItem
	for _, item := range r.items {
		if item.Claimable(req.Now) {
			candidates = append(candidates, item)
		}
	}
	sortByCreation(candidates)
	if len(candidates) > req.Limit {
		candidates = candidates[:req.Limit]
	}

	leaseExpiry := req.Now.Add(req.LeaseDuration)
	claimed := make([]*queueDomain.WorkItem, 0, len(candidates))
	for _, item := range candidates {
		consumer := req.ConsumerID
		until := leaseExpiry
		item.Status = queueDomain.StatusProcessing
		item.LockedBy = &consumer
		item.LockedUntil = &until
		item.UpdatedAt = req.Now
		claimed = append(claimed, copyWorkItem(item))
	}
	return claimed, nil
}

// Complete marks an item completed for the lease holder. Terminal items are left untouched.
func (r *MemoryWorkItemRepository) Complete(
	_ context.Context,
	id uuid.UUID,
	consumerID string,
	now time.Time,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return queueDomain.ErrWorkItemNotFound
	}
	if item.Status.Terminal() {
		return nil
	}
	if !item.HeldBy(consumerID) {
		return queueDomain.ErrLeaseLost
	}
	processedAt := now
	item.Status = queueDomain.StatusCompleted
	item.LockedBy = nil
	item.LockedUntil = nil
	item.ProcessedAt = &processedAt
	item.UpdatedAt = now
	return nil
}

// Fail records a processing failure and returns the resulting status.
func (r *MemoryWorkItemRepository) Fail(
	_ context.Context,
	id uuid.UUID,
	consumerID string,
	errorMessage string,
	retryCount int,
	maxRetries int,
	now time.Time,
) (queueDomain.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return "", queueDomain.ErrWorkItemNotFound
	}
	if item.Status.Terminal() {
		return item.Status, nil
	}
	if !item.HeldBy(consumerID) {
		return "", queueDomain.ErrLeaseLost
	}

	message := errorMessage
	item.Status = failStatus(retryCount, maxRetries)
	item.LockedBy = nil
	item.LockedUntil = nil
	item.RetryCount = retryCount
	item.ErrorMessage = &message
	item.UpdatedAt = now
	if item.Status == queueDomain.StatusFailed {
		processedAt := now
		item.ProcessedAt = &processedAt
	}
	return item.Status, nil
}

// Get returns a copy of the item.
func (r *MemoryWorkItemRepository) Get(_ context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, queueDomain.ErrWorkItemNotFound
	}
	return copyWorkItem(item), nil
}

// List returns copies of the matching items ordered by creation time.
func (r *MemoryWorkItemRepository) List(
	_ context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*queueDomain.WorkItem
	for _, item := range r.items {
		if filter.Status == nil || item.Status == *filter.Status {
			items = append(items, copyWorkItem(item))
		}
	}
	sortByCreation(items)

	if filter.Offset >= len(items) {
		return nil, nil
	}
	items = items[filter.Offset:]
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

// CountByStatus returns the number of items per status.
func (r *MemoryWorkItemRepository) CountByStatus(_ context.Context) (map[queueDomain.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[queueDomain.Status]int)
	for _, item := range r.items {
		counts[item.Status]++
	}
	return counts, nil
}

// DeleteFinishedBefore removes terminal items processed before the cutoff.
func (r *MemoryWorkItemRepository) DeleteFinishedBefore(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, item := range r.items {
		if item.Status.Terminal() && item.ProcessedAt != nil && item.ProcessedAt.Before(before) {
			delete(r.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func copyWorkItem(item *queueDomain.WorkItem) *queueDomain.WorkItem {
	c := *item
	if item.LockedBy != nil {
		v := *item.LockedBy
		c.LockedBy = &v
	}
	if item.LockedUntil != nil {
		v := *item.LockedUntil
		c.LockedUntil = &v
	}
	if item.ErrorMessage != nil {
		v := *item.ErrorMessage
		c.ErrorMessage = &v
	}
	if item.ProcessedAt != nil {
		v := *item.ProcessedAt
		c.ProcessedAt = &v
	}
	return &c
}

// NewMemoryWorkItemRepository creates an empty in-memory queue store.
func NewMemoryWorkItemRepository() *MemoryWorkItemRepository {
	return &MemoryWorkItemRepository{items: make(map[uuid.UUID]*queueDomain.WorkItem)}
}
