// Package usecase orchestrates case transfers: it runs the resolve, validate and strategy
// pipeline on the request path and executes queued transfer events on the consumer path.
package usecase

import (
	"context"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// CaseStore is the case store as seen by the transfer use cases.
type CaseStore interface {
	GetByReference(ctx context.Context, reference string) (*casesDomain.Case, error)
	GetBulkByReference(ctx context.Context, reference string) (*casesDomain.BulkCase, error)
	UpdateManagingOffice(ctx context.Context, reference string, change casesDomain.OfficeChange) error
	MarkTransferred(ctx context.Context, reference string, change casesDomain.OfficeChange) error
	CreateInJurisdiction(
		ctx context.Context,
		jurisdiction casesDomain.Jurisdiction,
		office string,
		snapshot *casesDomain.Case,
		confirmationRequired bool,
	) (string, error)
	LinkTransferred(ctx context.Context, sourceReference string, destinationReference string) error
	LinkCounterClaims(ctx context.Context, reference string, counterpart string) error
}

// TransferUseCase moves cases, and every case linked to them, to another office.
type TransferUseCase interface {
	// TransferCase transfers one case and its linked cases. A blocked transfer is
	// reported through TransferResult.Errors with a nil error.
	TransferCase(ctx context.Context, input TransferCaseInput) (*transferDomain.TransferResult, error)

	// TransferBulk transfers every case of a bulk container.
	TransferBulk(ctx context.Context, input BulkTransferInput) (*transferDomain.TransferResult, error)
}
