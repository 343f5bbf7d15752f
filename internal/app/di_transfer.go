package app

import (
	"fmt"

	transferHTTP "github.com/hmcts/et-case-transfer/internal/transfer/http"
	"github.com/hmcts/et-case-transfer/internal/transfer/service"
	transferUsecase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

// TransferUseCase returns the case and bulk transfer use case.
func (c *Container) TransferUseCase() (transferUsecase.TransferUseCase, error) {
	c.transferUseCaseInit.Do(func() {
		useCase, err := c.initTransferUseCase()
		c.store("transferUseCase", err)
		c.transferUseCase = useCase
	})
	if err := c.stored("transferUseCase"); err != nil {
		return nil, err
	}
	return c.transferUseCase, nil
}

// TransferHandler returns the transfer HTTP handler.
func (c *Container) TransferHandler() (*transferHTTP.TransferHandler, error) {
	c.transferHandlerInit.Do(func() {
		useCase, err := c.TransferUseCase()
		if err != nil {
			c.store("transferHandler", fmt.Errorf("failed to get transfer use case for transfer handler: %w", err))
			return
		}
		c.transferHandler = transferHTTP.NewTransferHandler(useCase, c.Logger())
	})
	if err := c.stored("transferHandler"); err != nil {
		return nil, err
	}
	return c.transferHandler, nil
}

func (c *Container) initTransferUseCase() (transferUsecase.TransferUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for transfer use case: %w", err)
	}

	cases, err := c.CaseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get case repository for transfer use case: %w", err)
	}

	producer, err := c.WorkItemUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get work item use case for transfer use case: %w", err)
	}

	logger := c.Logger()
	builder := service.NewEventBuilder()
	selector := service.NewStrategySelector(
		c.OfficeDirectory(),
		service.NewSameJurisdictionStrategy(cases, builder),
		service.NewCrossJurisdictionStrategy(cases, builder),
	)

	baseUseCase := transferUsecase.NewTransferUseCase(
		txManager,
		cases,
		service.NewResolver(cases, logger),
		service.NewValidator(),
		selector,
		service.NewEventPublisher(producer, logger),
		logger,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for transfer use case: %w", err)
		}
		return transferUsecase.NewTransferUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
