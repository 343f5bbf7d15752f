package app

import (
	"context"
	"fmt"

	"github.com/hmcts/et-case-transfer/internal/database"
	"github.com/hmcts/et-case-transfer/internal/metrics"
	queueHTTP "github.com/hmcts/et-case-transfer/internal/queue/http"
	queueRepository "github.com/hmcts/et-case-transfer/internal/queue/repository"
	queueUsecase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
	transferUsecase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

// WorkItemRepository returns the queue store for the configured database driver.
func (c *Container) WorkItemRepository() (queueUsecase.WorkItemRepository, error) {
	c.workItemRepoInit.Do(func() {
		repo, err := c.initWorkItemRepository()
		c.store("workItemRepository", err)
		c.workItemRepository = repo
	})
	if err := c.stored("workItemRepository"); err != nil {
		return nil, err
	}
	return c.workItemRepository, nil
}

// WorkItemUseCase returns the producer and queue inspection use case.
func (c *Container) WorkItemUseCase() (queueUsecase.WorkItemUseCase, error) {
	c.workItemUseCaseInit.Do(func() {
		useCase, err := c.initWorkItemUseCase()
		c.store("workItemUseCase", err)
		c.workItemUseCase = useCase
	})
	if err := c.stored("workItemUseCase"); err != nil {
		return nil, err
	}
	return c.workItemUseCase, nil
}

// WorkItemHandler returns the work item HTTP handler.
func (c *Container) WorkItemHandler() (*queueHTTP.WorkItemHandler, error) {
	c.workItemHandlerInit.Do(func() {
		useCase, err := c.WorkItemUseCase()
		if err != nil {
			c.store("workItemHandler", fmt.Errorf("failed to get work item use case for work item handler: %w", err))
			return
		}
		c.workItemHandler = queueHTTP.NewWorkItemHandler(useCase, c.Logger())
	})
	if err := c.stored("workItemHandler"); err != nil {
		return nil, err
	}
	return c.workItemHandler, nil
}

// ConsumerPool returns the pool of queue consumers executing transfer events.
func (c *Container) ConsumerPool() (*queueUsecase.Pool, error) {
	c.consumerPoolInit.Do(func() {
		pool, err := c.initConsumerPool()
		c.store("consumerPool", err)
		c.consumerPool = pool
	})
	if err := c.stored("consumerPool"); err != nil {
		return nil, err
	}
	return c.consumerPool, nil
}

func (c *Container) initWorkItemRepository() (queueUsecase.WorkItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for work item repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return queueRepository.NewPostgreSQLWorkItemRepository(db), nil
	case database.DriverMySQL:
		return queueRepository.NewMySQLWorkItemRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initWorkItemUseCase() (queueUsecase.WorkItemUseCase, error) {
	repo, err := c.WorkItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get work item repository for work item use case: %w", err)
	}

	baseUseCase := queueUsecase.NewWorkItemUseCase(repo)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for work item use case: %w", err)
		}
		return queueUsecase.NewWorkItemUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initConsumerPool() (*queueUsecase.Pool, error) {
	repo, err := c.WorkItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get work item repository for consumer pool: %w", err)
	}

	cases, err := c.CaseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get case repository for consumer pool: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for consumer pool: %w", err)
	}

	logger := c.Logger()
	mux := queueUsecase.NewProcessorMux()
	transferUsecase.NewTransferEventProcessor(cases, logger).Register(mux)

	poolConfig := queueUsecase.PoolConfig{
		ConsumerConfig: queueUsecase.ConsumerConfig{
			Interval:      c.config.WorkerInterval,
			BatchSize:     c.config.WorkerBatchSize,
			MaxRetries:    c.config.WorkerMaxRetries,
			LeaseDuration: c.config.WorkerLeaseDuration,
		},
		WorkerID:  c.config.WorkerID,
		Consumers: c.config.WorkerConsumers,
	}
	return queueUsecase.NewPool(poolConfig, repo, mux, businessMetrics, logger), nil
}

func (c *Container) registerQueueDepthGauge(provider *metrics.Provider) error {
	repo, err := c.WorkItemRepository()
	if err != nil {
		return fmt.Errorf("failed to get work item repository for queue depth gauge: %w", err)
	}

	_, err = metrics.RegisterQueueDepthGauge(
		provider.MeterProvider(),
		c.config.MetricsNamespace,
		func(ctx context.Context) (map[string]int, error) {
			counts, err := repo.CountByStatus(ctx)
			if err != nil {
				return nil, err
			}
			byStatus := make(map[string]int, len(counts))
			for status, n := range counts {
				byStatus[string(status)] = n
			}
			return byStatus, nil
		},
	)
	return err
}
