package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records transfer and queue outcomes.
//
// Domains are "transfer" and "queue". Transfer operations are "case_transfer" and
// "bulk_transfer"; the queue operation is "work_item_process".
type BusinessMetrics interface {
	// RecordOperation counts one operation with its outcome: "success", "error",
	// "blocked", "retry" or "failed".
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration observes how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordTransferredCases counts the cases a transfer moved, split between those
	// updated in the request and those handed to the queue.
	RecordTransferredCases(ctx context.Context, strategy string, updated, queued int)
}

type businessMetrics struct {
	operations  metric.Int64Counter
	durations   metric.Float64Histogram
	transferred metric.Int64Counter
}

// NewBusinessMetrics creates the instruments on meterProvider. Metric names are
// prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operations, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of transfer and queue operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durations, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of transfer and queue operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	transferred, err := meter.Int64Counter(
		fmt.Sprintf("%s_transferred_cases_total", namespace),
		metric.WithDescription("Cases moved by accepted transfers"),
		metric.WithUnit("{case}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transferred cases counter: %w", err)
	}

	return &businessMetrics{
		operations:  operations,
		durations:   durations,
		transferred: transferred,
	}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordTransferredCases(ctx context.Context, strategy string, updated, queued int) {
	if updated > 0 {
		b.transferred.Add(ctx, int64(updated), metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("mode", "updated"),
		))
	}
	if queued > 0 {
		b.transferred.Add(ctx, int64(queued), metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("mode", "queued"),
		))
	}
}

// NoOpBusinessMetrics discards everything. It is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing.
func (n *NoOpBusinessMetrics) RecordOperation(_ context.Context, _, _, _ string) {}

// RecordDuration does nothing.
func (n *NoOpBusinessMetrics) RecordDuration(
	_ context.Context,
	_, _ string,
	_ time.Duration,
	_ string,
) {
}

// RecordTransferredCases does nothing.
func (n *NoOpBusinessMetrics) RecordTransferredCases(_ context.Context, _ string, _, _ int) {}
