package service

import (
	"context"
	"log/slog"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// EventPublisher serialises transfer events onto the work queue.
type EventPublisher struct {
	producer Producer
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher over the queue producer.
func NewEventPublisher(producer Producer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, logger: logger}
}

// Publish enqueues params. Any failure is returned as ErrEnqueueFailed; a lost event
// would leave the case silently untransferred.
func (p *EventPublisher) Publish(
	ctx context.Context,
	params transferDomain.TransferEventParams,
) (*queueDomain.WorkItem, error) {
	payload, err := params.Encode()
	if err != nil {
		return nil, transferDomain.NewEnqueueError(params.CaseReference, err)
	}

	item, err := p.producer.Enqueue(ctx, params.EventType(), payload)
	if err != nil {
		return nil, transferDomain.NewEnqueueError(params.CaseReference, err)
	}

	p.logger.Debug("transfer event enqueued",
		slog.String("case_reference", params.CaseReference),
		slog.String("work_item_id", item.ID.String()),
		slog.String("event_type", item.EventType),
	)
	return item, nil
}
