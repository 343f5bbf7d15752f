package usecase

import (
	"context"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// ProcessorMux dispatches work items to the processor registered for their event type.
type ProcessorMux struct {
	processors map[string]Processor
}

// Handle registers processor for eventType, replacing any previous registration.
func (m *ProcessorMux) Handle(eventType string, processor Processor) {
	m.processors[eventType] = processor
}

// Process runs the processor registered for item.EventType.
func (m *ProcessorMux) Process(ctx context.Context, item *queueDomain.WorkItem) error {
	processor, ok := m.processors[item.EventType]
	if !ok {
		return apperrors.Wrapf(queueDomain.ErrUnknownEventType, "%q", item.EventType)
	}
	return processor.Process(ctx, item)
}

// NewProcessorMux creates an empty mux.
func NewProcessorMux() *ProcessorMux {
	return &ProcessorMux{processors: make(map[string]Processor)}
}
