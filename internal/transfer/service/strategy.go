package service

import (
	"context"
	"strings"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

type sameJurisdictionStrategy struct {
	cases   CaseMutator
	builder *EventBuilder
}

// NewSameJurisdictionStrategy moves the primary case in place and defers linked cases
// to the queue.
func NewSameJurisdictionStrategy(cases CaseMutator, builder *EventBuilder) Strategy {
	return &sameJurisdictionStrategy{cases: cases, builder: builder}
}

func (s *sameJurisdictionStrategy) Kind() transferDomain.StrategyKind {
	return transferDomain.StrategySameJurisdiction
}

func (s *sameJurisdictionStrategy) Apply(
	ctx context.Context,
	plan transferDomain.Plan,
) ([]transferDomain.TransferEventParams, []string, error) {
	targets := plan.Set.Cases()
	var updated []string

	if plan.Bulk == nil {
		primary := plan.Set.Primary()
		params := s.builder.Build(primary, plan, true)
		if err := s.cases.UpdateManagingOffice(ctx, primary.Reference, params.OfficeChange()); err != nil {
			return nil, nil, err
		}
		updated = append(updated, primary.Reference)
		targets = plan.Set.Linked()
	}

	events := make([]transferDomain.TransferEventParams, 0, len(targets))
	for _, c := range targets {
		events = append(events, s.builder.Build(c, plan, true))
	}
	return events, updated, nil
}

type crossJurisdictionStrategy struct {
	cases   CaseMutator
	builder *EventBuilder
}

// NewCrossJurisdictionStrategy marks the primary case transferred and queues the
// recreation of every case in the destination jurisdiction.
func NewCrossJurisdictionStrategy(cases CaseMutator, builder *EventBuilder) Strategy {
	return &crossJurisdictionStrategy{cases: cases, builder: builder}
}

func (s *crossJurisdictionStrategy) Kind() transferDomain.StrategyKind {
	return transferDomain.StrategyCrossJurisdiction
}

func (s *crossJurisdictionStrategy) Apply(
	ctx context.Context,
	plan transferDomain.Plan,
) ([]transferDomain.TransferEventParams, []string, error) {
	events := make([]transferDomain.TransferEventParams, 0, plan.Set.Len())
	for _, c := range plan.Set.Cases() {
		events = append(events, s.builder.Build(c, plan, false))
	}

	var updated []string
	if plan.Bulk == nil {
		primary := plan.Set.Primary()
		if err := s.cases.MarkTransferred(ctx, primary.Reference, events[0].OfficeChange()); err != nil {
			return nil, nil, err
		}
		updated = append(updated, primary.Reference)
	}
	return events, updated, nil
}

// StrategySelector picks the strategy for a transfer from the office directory.
type StrategySelector struct {
	directory *casesDomain.OfficeDirectory
	same      Strategy
	cross     Strategy
}

// NewStrategySelector creates a selector over the two strategies.
func NewStrategySelector(directory *casesDomain.OfficeDirectory, same, cross Strategy) *StrategySelector {
	return &StrategySelector{directory: directory, same: same, cross: cross}
}

// Select returns the strategy moving a case of jurisdiction, currently managed by
// currentOffice, to targetOffice, along with the target office's registration.
func (s *StrategySelector) Select(
	jurisdiction casesDomain.Jurisdiction,
	currentOffice string,
	targetOffice string,
) (Strategy, casesDomain.Office, error) {
	office, err := s.directory.Lookup(targetOffice)
	if err != nil {
		return nil, casesDomain.Office{}, err
	}
	if office.Jurisdiction == jurisdiction && strings.EqualFold(strings.TrimSpace(currentOffice), office.Name) {
		return nil, casesDomain.Office{}, transferDomain.ErrSameOffice
	}
	if office.Jurisdiction == jurisdiction {
		return s.same, office, nil
	}
	return s.cross, office, nil
}
