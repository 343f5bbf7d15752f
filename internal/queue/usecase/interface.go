// Package usecase implements the durable work queue: the producer used on the request path,
// lease-based consumers that drain it, and administrative inspection and retention.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// WorkItemRepository is the queue store. Create, Claim, Complete and Fail are the only
// operations that write work items. Complete and Fail succeed only for the consumer that
// holds the lease and return ErrLeaseLost to anyone else.
type WorkItemRepository interface {
	Create(ctx context.Context, item *queueDomain.WorkItem) error
	Claim(ctx context.Context, req queueDomain.ClaimRequest) ([]*queueDomain.WorkItem, error)
	Complete(ctx context.Context, id uuid.UUID, consumerID string, now time.Time) error
	Fail(
		ctx context.Context,
		id uuid.UUID,
		consumerID string,
		errorMessage string,
		retryCount int,
		maxRetries int,
		now time.Time,
	) (queueDomain.Status, error)
	Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	List(ctx context.Context, filter queueDomain.ListFilter) ([]*queueDomain.WorkItem, error)
	CountByStatus(ctx context.Context) (map[queueDomain.Status]int, error)
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
}

// Processor performs the work described by a claimed item.
type Processor interface {
	Process(ctx context.Context, item *queueDomain.WorkItem) error
}

// Producer enqueues work items.
type Producer interface {
	Enqueue(ctx context.Context, eventType string, payload string) (*queueDomain.WorkItem, error)
}

// WorkItemUseCase is the producer plus read-only inspection and retention.
type WorkItemUseCase interface {
	Producer
	Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	List(ctx context.Context, filter queueDomain.ListFilter) ([]*queueDomain.WorkItem, error)
	Stats(ctx context.Context) (map[queueDomain.Status]int, error)
	// DeleteOlderThan removes completed and failed items processed more than days ago.
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
