package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueueDepthFunc returns the current number of work items per status.
type QueueDepthFunc func(ctx context.Context) (map[string]int, error)

// RegisterQueueDepthGauge registers an observable gauge reporting the work queue depth
// per status. The callback runs on every collection, so depth is read at scrape time.
// A failing depth function skips the observation instead of failing the scrape.
func RegisterQueueDepthGauge(
	meterProvider metric.MeterProvider,
	namespace string,
	depth QueueDepthFunc,
) (metric.Registration, error) {
	meter := meterProvider.Meter(namespace)

	gauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_work_items", namespace),
		metric.WithDescription("Number of transfer work items by status"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue depth gauge: %w", err)
	}

	registration, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		counts, err := depth(ctx)
		if err != nil {
			return nil
		}
		for status, count := range counts {
			o.ObserveInt64(gauge, int64(count), metric.WithAttributes(attribute.String("status", status)))
		}
		return nil
	}, gauge)
	if err != nil {
		return nil, fmt.Errorf("failed to register queue depth callback: %w", err)
	}
	return registration, nil
}
