package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hmcts/et-case-transfer/internal/metrics"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// ConsumerConfig holds the polling and lease settings of one consumer.
type ConsumerConfig struct {
	ID            string
	Interval      time.Duration
	BatchSize     int
	MaxRetries    int
	LeaseDuration time.Duration
}

// Consumer polls the queue on a fixed interval, leases a batch of items and runs them
// through the processor. An item whose processing fails is handed back with an incremented
// retry count; an item abandoned by a crashed consumer is reclaimed once its lease expires.
type Consumer struct {
	config    ConsumerConfig
	repo      WorkItemRepository
	processor Processor
	metrics   metrics.BusinessMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// Start runs the polling loop until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("starting work queue consumer",
		slog.String("consumer_id", c.config.ID),
		slog.Duration("interval", c.config.Interval),
		slog.Int("batch_size", c.config.BatchSize),
		slog.Duration("lease_duration", c.config.LeaseDuration),
	)

	ticker := time.NewTicker(c.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping work queue consumer", slog.String("consumer_id", c.config.ID))
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.ProcessBatch(ctx); err != nil {
				c.logger.Error("failed to process work items",
					slog.String("consumer_id", c.config.ID),
					slog.Any("error", err),
				)
			}
		}
	}
}

// ProcessBatch claims and processes one batch, returning how many items were claimed.
func (c *Consumer) ProcessBatch(ctx context.Context) (int, error) {
	items, err := c.repo.Claim(ctx, queueDomain.ClaimRequest{
		ConsumerID:    c.config.ID,
		Limit:         c.config.BatchSize,
		LeaseDuration: c.config.LeaseDuration,
		Now:           c.now().UTC(),
	})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	c.logger.Debug("claimed work items",
		slog.String("consumer_id", c.config.ID),
		slog.Int("count", len(items)),
	)

	var errs []error
	for _, item := range items {
		if ctx.Err() != nil {
			// Unprocessed items are reclaimed after their lease expires.
			break
		}
		if err := c.processItem(ctx, item); err != nil {
			errs = append(errs, err)
		}
	}
	return len(items), errors.Join(errs...)
}

func (c *Consumer) processItem(ctx context.Context, item *queueDomain.WorkItem) error {
	start := time.Now()
	processErr := c.processor.Process(ctx, item)

	if processErr == nil {
		err := c.repo.Complete(ctx, item.ID, c.config.ID, c.now().UTC())
		if errors.Is(err, queueDomain.ErrLeaseLost) {
			c.leaseLost(ctx, item, start)
			return nil
		}
		if err != nil {
			return err
		}
		c.record(ctx, "success", start)
		return nil
	}

	status, err := c.repo.Fail(
		ctx,
		item.ID,
		c.config.ID,
		processErr.Error(),
		item.RetryCount+1,
		c.config.MaxRetries,
		c.now().UTC(),
	)
	if errors.Is(err, queueDomain.ErrLeaseLost) {
		c.leaseLost(ctx, item, start)
		return nil
	}
	if err != nil {
		return errors.Join(processErr, err)
	}

	level := slog.LevelWarn
	outcome := "retry"
	if status == queueDomain.StatusFailed {
		level = slog.LevelError
		outcome = "failed"
	}
	c.logger.Log(ctx, level, "work item processing failed",
		slog.String("consumer_id", c.config.ID),
		slog.String("work_item_id", item.ID.String()),
		slog.String("event_type", item.EventType),
		slog.Int("retry_count", item.RetryCount+1),
		slog.String("status", string(status)),
		slog.Any("error", processErr),
	)
	c.record(ctx, outcome, start)
	return nil
}

// leaseLost drops the outcome of an item whose lease expired and was reclaimed while it
// was being processed. The current holder settles it.
func (c *Consumer) leaseLost(ctx context.Context, item *queueDomain.WorkItem, start time.Time) {
	c.logger.Warn("work item lease lost before settlement",
		slog.String("consumer_id", c.config.ID),
		slog.String("work_item_id", item.ID.String()),
		slog.String("event_type", item.EventType),
	)
	c.record(ctx, "lease_lost", start)
}

func (c *Consumer) record(ctx context.Context, status string, start time.Time) {
	c.metrics.RecordOperation(ctx, "queue", "work_item_process", status)
	c.metrics.RecordDuration(ctx, "queue", "work_item_process", time.Since(start), status)
}

// ID returns the consumer identity written to LockedBy.
func (c *Consumer) ID() string {
	return c.config.ID
}

// NewConsumer creates a consumer. A nil businessMetrics disables metrics.
func NewConsumer(
	config ConsumerConfig,
	repo WorkItemRepository,
	processor Processor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Consumer {
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		config:    config,
		repo:      repo,
		processor: processor,
		metrics:   businessMetrics,
		logger:    logger,
		now:       time.Now,
	}
}
