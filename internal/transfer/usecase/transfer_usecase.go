package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
	"github.com/hmcts/et-case-transfer/internal/transfer/service"
	customValidation "github.com/hmcts/et-case-transfer/internal/validation"
)

type transferUseCase struct {
	txManager database.TxManager
	cases     CaseStore
	resolver  *service.Resolver
	validator *service.Validator
	selector  *service.StrategySelector
	publisher *service.EventPublisher
	logger    *slog.Logger
}

// TransferCase resolves the case's linked set, validates every case in it and applies
// the selected strategy. The synchronous case update and the enqueued events commit in
// one transaction.
func (t *transferUseCase) TransferCase(
	ctx context.Context,
	input TransferCaseInput,
) (*transferDomain.TransferResult, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	set, err := t.resolver.ResolveReference(ctx, input.CaseReference)
	if err != nil {
		return nil, err
	}

	primary := set.Primary()
	strategy, office, err := t.selector.Select(primary.Jurisdiction, primary.ManagingOffice, input.TargetOffice)
	if err != nil {
		return nil, err
	}

	result := &transferDomain.TransferResult{Strategy: strategy.Kind()}
	if messages := t.validator.ValidateSet(set); len(messages) > 0 {
		t.logger.Warn("case transfer blocked",
			slog.String("case_reference", primary.Reference),
			slog.Any("errors", messages),
		)
		result.Errors = messages
		return result, nil
	}

	plan := transferDomain.Plan{
		Set:                set,
		TargetOffice:       office.Name,
		TargetJurisdiction: office.Jurisdiction,
		Reason:             input.Reason,
		PositionType:       input.PositionType,
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		events, updated, err := strategy.Apply(ctx, plan)
		if err != nil {
			return err
		}
		items, err := t.publishAll(ctx, events)
		if err != nil {
			return err
		}
		result.WorkItems = items
		result.UpdatedCases = updated
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to transfer case %s", primary.Reference)
	}

	t.logger.Info("case transferred",
		slog.String("case_reference", primary.Reference),
		slog.String("strategy", string(result.Strategy)),
		slog.String("target_office", office.Name),
		slog.Int("queued_events", len(result.WorkItems)),
	)
	return result, nil
}

type bulkGroup struct {
	set     *transferDomain.LinkedCaseSet
	blocked bool
}

// TransferBulk runs the pipeline for every case reference of a bulk container and
// accumulates every validation message. A case reachable from several references is
// transferred once. A cross-jurisdiction bulk transfer is all or nothing; a
// same-jurisdiction one queues every group that passed validation.
func (t *transferUseCase) TransferBulk(
	ctx context.Context,
	input BulkTransferInput,
) (*transferDomain.TransferResult, error) {
	if err := input.Validate(); err != nil {
		return nil, customValidation.WrapValidationError(err)
	}

	bulk, err := t.cases.GetBulkByReference(ctx, input.BulkReference)
	if err != nil {
		return nil, err
	}

	references := input.CaseReferences
	if references == nil {
		references = bulk.CaseReferences
	}
	if len(references) == 0 {
		return nil, apperrors.Wrapf(transferDomain.ErrNoCasesFound, "bulk case %s", bulk.Reference)
	}

	strategy, office, err := t.selector.Select(bulk.Jurisdiction, bulk.ManagingOffice, input.TargetOffice)
	if err != nil {
		return nil, err
	}

	result := &transferDomain.TransferResult{Strategy: strategy.Kind()}
	groups, err := t.resolveGroups(ctx, references, result)
	if err != nil {
		return nil, err
	}

	if result.Blocked() && strategy.Kind() == transferDomain.StrategyCrossJurisdiction {
		t.logger.Warn("bulk transfer blocked",
			slog.String("bulk_reference", bulk.Reference),
			slog.Any("errors", result.Errors),
		)
		return result, nil
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		var items []*queueDomain.WorkItem
		for _, group := range groups {
			if group.blocked {
				continue
			}
			events, _, err := strategy.Apply(ctx, transferDomain.Plan{
				Set:                group.set,
				TargetOffice:       office.Name,
				TargetJurisdiction: office.Jurisdiction,
				Reason:             input.Reason,
				PositionType:       input.PositionType,
				Bulk:               bulk,
			})
			if err != nil {
				return err
			}
			published, err := t.publishAll(ctx, events)
			if err != nil {
				return err
			}
			items = append(items, published...)
		}
		result.WorkItems = items
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to transfer bulk case %s", bulk.Reference)
	}

	t.logger.Info("bulk case transferred",
		slog.String("bulk_reference", bulk.Reference),
		slog.String("strategy", string(result.Strategy)),
		slog.String("target_office", office.Name),
		slog.Int("queued_events", len(result.WorkItems)),
		slog.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// resolveGroups resolves and validates each reference. Cases already claimed by an
// earlier group are left out of later ones. A reference that does not exist is reported
// as a message; any other lookup failure aborts.
func (t *transferUseCase) resolveGroups(
	ctx context.Context,
	references []string,
	result *transferDomain.TransferResult,
) ([]bulkGroup, error) {
	visited := make(map[string]struct{})
	var groups []bulkGroup

	for _, reference := range references {
		if _, ok := visited[reference]; ok {
			continue
		}

		resolved, err := t.resolver.ResolveReference(ctx, reference)
		if err != nil {
			if apperrors.Is(err, transferDomain.ErrNoCasesFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("Case %s not found", reference))
				visited[reference] = struct{}{}
				continue
			}
			return nil, err
		}

		set := transferDomain.NewLinkedCaseSet(resolved.Primary())
		for _, c := range resolved.Linked() {
			if _, ok := visited[c.Reference]; !ok {
				set.Add(c)
			}
		}
		for _, ref := range set.References() {
			visited[ref] = struct{}{}
		}

		messages := t.validator.ValidateSet(set)
		result.Errors = append(result.Errors, messages...)
		groups = append(groups, bulkGroup{set: set, blocked: len(messages) > 0})
	}
	return groups, nil
}

func (t *transferUseCase) publishAll(
	ctx context.Context,
	events []transferDomain.TransferEventParams,
) ([]*queueDomain.WorkItem, error) {
	items := make([]*queueDomain.WorkItem, 0, len(events))
	for _, event := range events {
		item, err := t.publisher.Publish(ctx, event)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// NewTransferUseCase creates the transfer use case.
func NewTransferUseCase(
	txManager database.TxManager,
	cases CaseStore,
	resolver *service.Resolver,
	validator *service.Validator,
	selector *service.StrategySelector,
	publisher *service.EventPublisher,
	logger *slog.Logger,
) TransferUseCase {
	return &transferUseCase{
		txManager: txManager,
		cases:     cases,
		resolver:  resolver,
		validator: validator,
		selector:  selector,
		publisher: publisher,
		logger:    logger,
	}
}
