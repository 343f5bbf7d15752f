package usecase

import (
	"context"
	"time"

	"github.com/hmcts/et-case-transfer/internal/metrics"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// transferUseCaseWithMetrics decorates TransferUseCase with metrics instrumentation.
type transferUseCaseWithMetrics struct {
	next    TransferUseCase
	metrics metrics.BusinessMetrics
}

// NewTransferUseCaseWithMetrics wraps a TransferUseCase with metrics recording.
func NewTransferUseCaseWithMetrics(useCase TransferUseCase, m metrics.BusinessMetrics) TransferUseCase {
	return &transferUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// A blocked transfer is recorded separately from a failed one.
func outcome(result *transferDomain.TransferResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case result != nil && result.Blocked():
		return "blocked"
	default:
		return "success"
	}
}

// TransferCase records metrics for single case transfers.
func (t *transferUseCaseWithMetrics) TransferCase(
	ctx context.Context,
	input TransferCaseInput,
) (*transferDomain.TransferResult, error) {
	start := time.Now()
	result, err := t.next.TransferCase(ctx, input)

	status := outcome(result, err)
	t.metrics.RecordOperation(ctx, "transfer", "case_transfer", status)
	t.metrics.RecordDuration(ctx, "transfer", "case_transfer", time.Since(start), status)
	t.recordMoved(ctx, result, err)

	return result, err
}

// TransferBulk records metrics for bulk transfers.
func (t *transferUseCaseWithMetrics) TransferBulk(
	ctx context.Context,
	input BulkTransferInput,
) (*transferDomain.TransferResult, error) {
	start := time.Now()
	result, err := t.next.TransferBulk(ctx, input)

	status := outcome(result, err)
	t.metrics.RecordOperation(ctx, "transfer", "bulk_transfer", status)
	t.metrics.RecordDuration(ctx, "transfer", "bulk_transfer", time.Since(start), status)
	t.recordMoved(ctx, result, err)

	return result, err
}

func (t *transferUseCaseWithMetrics) recordMoved(
	ctx context.Context,
	result *transferDomain.TransferResult,
	err error,
) {
	if err != nil || result == nil {
		return
	}
	if len(result.UpdatedCases) == 0 && len(result.WorkItems) == 0 {
		return
	}
	t.metrics.RecordTransferredCases(ctx, string(result.Strategy), len(result.UpdatedCases), len(result.WorkItems))
}
