package usecase

import (
	"context"
	"errors"
	"log/slog"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	queueUseCase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// SystemAuthContext is the identity queued transfers run under. The requesting caller's
// credential has long expired by the time a consumer runs.
const SystemAuthContext casesDomain.AuthContext = "system:case-transfer-worker"

// TransferEventProcessor executes queued transfer events against the case store.
type TransferEventProcessor struct {
	cases  CaseStore
	logger *slog.Logger
}

// NewTransferEventProcessor creates the processor.
func NewTransferEventProcessor(cases CaseStore, logger *slog.Logger) *TransferEventProcessor {
	return &TransferEventProcessor{cases: cases, logger: logger}
}

// Register adds the processor to mux for both transfer event types.
func (p *TransferEventProcessor) Register(mux *queueUseCase.ProcessorMux) {
	mux.Handle(transferDomain.EventTypeSameJurisdiction, p)
	mux.Handle(transferDomain.EventTypeCrossJurisdiction, p)
}

// Process applies the event carried by item. Every step is idempotent, so an item
// retried after a partial failure converges on the same result.
func (p *TransferEventProcessor) Process(ctx context.Context, item *queueDomain.WorkItem) error {
	params, err := transferDomain.DecodeTransferEventParams(item.Payload)
	if err != nil {
		return err
	}

	if _, ok := casesDomain.AuthContextFrom(ctx); !ok {
		ctx = casesDomain.WithAuthContext(ctx, SystemAuthContext)
	}

	switch item.EventType {
	case transferDomain.EventTypeSameJurisdiction:
		return p.moveOffice(ctx, params)
	case transferDomain.EventTypeCrossJurisdiction:
		return p.recreate(ctx, params)
	default:
		return apperrors.Wrapf(queueDomain.ErrUnknownEventType, "%q", item.EventType)
	}
}

func (p *TransferEventProcessor) moveOffice(ctx context.Context, params transferDomain.TransferEventParams) error {
	if err := p.cases.UpdateManagingOffice(ctx, params.CaseReference, params.OfficeChange()); err != nil {
		return apperrors.Wrapf(err, "failed to move case %s", params.CaseReference)
	}

	p.logger.Info("linked case moved",
		slog.String("case_reference", params.CaseReference),
		slog.String("target_office", params.TargetOffice),
	)
	return nil
}

// recreate creates the case in the destination jurisdiction and links the source to
// it. When linking fails the retry finds the destination created by the earlier attempt
// instead of creating a second one.
func (p *TransferEventProcessor) recreate(ctx context.Context, params transferDomain.TransferEventParams) error {
	source, err := p.cases.GetByReference(ctx, params.CaseReference)
	if err != nil {
		return apperrors.Wrapf(err, "failed to load case %s", params.CaseReference)
	}

	destination, err := p.cases.CreateInJurisdiction(
		ctx,
		params.TargetJurisdiction,
		params.TargetOffice,
		source.Snapshot(),
		params.ConfirmationRequired,
	)
	if err != nil {
		return apperrors.Wrapf(err, "failed to create case %s in %s", params.CaseReference, params.TargetJurisdiction)
	}

	if err := p.cases.LinkTransferred(ctx, source.Reference, destination); err != nil {
		return apperrors.Wrapf(err, "failed to link case %s to %s", source.Reference, destination)
	}

	if err := p.pairCounterClaim(ctx, source, destination, params.TargetJurisdiction); err != nil {
		return err
	}

	p.logger.Info("case recreated in destination jurisdiction",
		slog.String("case_reference", source.Reference),
		slog.String("destination_reference", destination),
		slog.String("target_jurisdiction", string(params.TargetJurisdiction)),
		slog.String("multiple_reference", params.MultipleReference),
	)
	return nil
}

// pairCounterClaim restores the counter-claim link between recreated cases. Whichever
// side of a pair is recreated second finds its counterpart's destination and links the
// two; the first side has nothing to link yet.
func (p *TransferEventProcessor) pairCounterClaim(
	ctx context.Context,
	source *casesDomain.Case,
	destination string,
	jurisdiction casesDomain.Jurisdiction,
) error {
	counterpartReference, ok := source.CounterClaim()
	if !ok {
		return nil
	}

	counterpart, err := p.cases.GetByReference(ctx, counterpartReference)
	if errors.Is(err, casesDomain.ErrCaseNotFound) {
		p.logger.Warn("counter-claim case not found",
			slog.String("case_reference", source.Reference),
			slog.String("counter_claim_reference", counterpartReference),
		)
		return nil
	}
	if err != nil {
		return apperrors.Wrapf(err, "failed to load counter-claim %s", counterpartReference)
	}
	if counterpart.TransferredTo == nil {
		return nil
	}

	counterpartDestination, err := p.cases.GetByReference(ctx, *counterpart.TransferredTo)
	if err != nil {
		return apperrors.Wrapf(err, "failed to load case %s", *counterpart.TransferredTo)
	}
	if counterpartDestination.Jurisdiction != jurisdiction {
		return nil
	}

	if err := p.cases.LinkCounterClaims(ctx, destination, counterpartDestination.Reference); err != nil {
		return apperrors.Wrapf(err, "failed to pair %s with %s", destination, counterpartDestination.Reference)
	}
	return nil
}
