package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hmcts/et-case-transfer/internal/metrics"
)

// PoolConfig configures a set of consumers sharing one queue. Consumer identities are
// "<WorkerID>-<n>".
type PoolConfig struct {
	ConsumerConfig
	WorkerID  string
	Consumers int
}

// Pool runs independent consumers concurrently. Claims are atomic in the store, so the
// consumers need no coordination with each other or with other pools.
type Pool struct {
	consumers []*Consumer
	logger    *slog.Logger
}

// Start runs every consumer until ctx is cancelled or one of them fails. Cancellation
// is a clean shutdown and returns nil.
func (p *Pool) Start(ctx context.Context) error {
	p.logger.Info("starting work queue consumer pool", slog.Int("consumers", len(p.consumers)))

	g, gctx := errgroup.WithContext(ctx)
	for _, consumer := range p.consumers {
		g.Go(func() error {
			err := consumer.Start(gctx)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	p.logger.Info("work queue consumer pool stopped")
	return nil
}

// Consumers returns the pooled consumers.
func (p *Pool) Consumers() []*Consumer {
	return p.consumers
}

// NewPool creates config.Consumers consumers, at least one.
func NewPool(
	config PoolConfig,
	repo WorkItemRepository,
	processor Processor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Pool {
	n := max(config.Consumers, 1)
	if logger == nil {
		logger = slog.Default()
	}

	consumers := make([]*Consumer, 0, n)
	for i := 1; i <= n; i++ {
		consumerConfig := config.ConsumerConfig
		consumerConfig.ID = fmt.Sprintf("%s-%d", config.WorkerID, i)
		consumers = append(consumers, NewConsumer(consumerConfig, repo, processor, businessMetrics, logger))
	}
	return &Pool{consumers: consumers, logger: logger}
}
