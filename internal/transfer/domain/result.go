package domain

import (
	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// StrategyKind names the transfer strategy chosen for a request.
type StrategyKind string

const (
	StrategySameJurisdiction  StrategyKind = "same_jurisdiction"
	StrategyCrossJurisdiction StrategyKind = "cross_jurisdiction"
)

// Plan is the input a strategy applies: the validated case set and where it is going.
// Bulk is set when the set belongs to a bulk container; strategies then mutate nothing
// synchronously.
type Plan struct {
	Set                *LinkedCaseSet
	TargetOffice       string
	TargetJurisdiction casesDomain.Jurisdiction
	Reason             string
	PositionType       string
	Bulk               *casesDomain.BulkCase
}

// TransferResult is the outcome of a transfer request. A non-empty Errors means the
// transfer was blocked and nothing was changed for the blocked cases.
type TransferResult struct {
	Strategy     StrategyKind
	Errors       []string
	WorkItems    []*queueDomain.WorkItem
	UpdatedCases []string
}

// Blocked reports whether validation refused the transfer.
func (r *TransferResult) Blocked() bool {
	return len(r.Errors) > 0
}
