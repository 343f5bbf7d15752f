package service

import (
	"fmt"
	"strings"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// EventBuilder turns a strategy decision for one case into normalised event params.
type EventBuilder struct{}

// NewEventBuilder creates an event builder.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{}
}

// Build returns the params that transfer c as described by plan.
func (b *EventBuilder) Build(
	c *casesDomain.Case,
	plan transferDomain.Plan,
	sameJurisdiction bool,
) transferDomain.TransferEventParams {
	position := strings.TrimSpace(plan.PositionType)
	if position == "" {
		position = transferDomain.PositionCrossJurisdiction
		if sameJurisdiction {
			position = transferDomain.PositionSameJurisdiction
		}
	}

	params := transferDomain.TransferEventParams{
		CaseReference:        c.Reference,
		SourceJurisdiction:   c.Jurisdiction,
		SourceOffice:         c.ManagingOffice,
		TargetOffice:         strings.TrimSpace(plan.TargetOffice),
		TargetJurisdiction:   plan.TargetJurisdiction,
		Reason:               strings.TrimSpace(plan.Reason),
		PositionType:         position,
		SameJurisdiction:     sameJurisdiction,
		ConfirmationRequired: !sameJurisdiction,
		LinkedCaseReferences: plan.Set.References(),
	}

	if plan.Bulk != nil {
		params.MultipleReference = plan.Bulk.Reference
		params.MultipleReferenceLink = multipleLink(plan.Bulk)
	}
	return params
}

func multipleLink(bulk *casesDomain.BulkCase) string {
	if bulk.Name == "" {
		return fmt.Sprintf("Multiple %s", bulk.Reference)
	}
	return fmt.Sprintf("Multiple %s (%s)", bulk.Name, bulk.Reference)
}
