// Package service holds the transfer pipeline stages: linked-case resolution,
// transfer-safety validation, the two transfer strategies and the event builder and
// publisher that hand work to the queue.
package service

import (
	"context"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// CaseFinder looks cases up by reference.
type CaseFinder interface {
	GetByReference(ctx context.Context, reference string) (*casesDomain.Case, error)
}

// CaseMutator applies the synchronous part of a transfer to the primary case.
type CaseMutator interface {
	UpdateManagingOffice(ctx context.Context, reference string, change casesDomain.OfficeChange) error
	MarkTransferred(ctx context.Context, reference string, change casesDomain.OfficeChange) error
}

// Producer enqueues work items.
type Producer interface {
	Enqueue(ctx context.Context, eventType string, payload string) (*queueDomain.WorkItem, error)
}

// Strategy decides how a validated case set is moved and which events are queued.
type Strategy interface {
	Kind() transferDomain.StrategyKind
	// Apply performs any synchronous mutation and returns one event per case that still
	// needs an asynchronous step, in the set's order, plus the references it changed.
	Apply(ctx context.Context, plan transferDomain.Plan) ([]transferDomain.TransferEventParams, []string, error)
}
