package service

import (
	"context"
	"log/slog"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// Resolver discovers the cases linked to a starting case through counter-claim
// references.
type Resolver struct {
	cases  CaseFinder
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the case store.
func NewResolver(cases CaseFinder, logger *slog.Logger) *Resolver {
	return &Resolver{cases: cases, logger: logger}
}

// Resolve walks counter-claim links breadth first from start. A reference already in
// the set is never fetched again, so cyclic links terminate. Any failed lookup aborts
// the walk.
func (r *Resolver) Resolve(ctx context.Context, start *casesDomain.Case) (*transferDomain.LinkedCaseSet, error) {
	if start == nil {
		return nil, transferDomain.ErrNoCasesFound
	}

	set := transferDomain.NewLinkedCaseSet(start)
	queue := []*casesDomain.Case{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		reference, ok := current.CounterClaim()
		if !ok || set.Contains(reference) {
			continue
		}

		linked, err := r.cases.GetByReference(ctx, reference)
		if err != nil {
			return nil, transferDomain.NewResolutionError(reference, err)
		}
		set.Add(linked)
		queue = append(queue, linked)
	}

	r.logger.Debug("resolved linked cases",
		slog.String("case_reference", start.Reference),
		slog.Any("linked_references", set.References()),
	)
	return set, nil
}

// ResolveReference fetches the starting case and resolves from it. A missing starting
// case means there is nothing to transfer.
func (r *Resolver) ResolveReference(ctx context.Context, reference string) (*transferDomain.LinkedCaseSet, error) {
	start, err := r.cases.GetByReference(ctx, reference)
	if err != nil {
		if apperrors.Is(err, casesDomain.ErrCaseNotFound) {
			return nil, transferDomain.ErrNoCasesFound
		}
		return nil, transferDomain.NewResolutionError(reference, err)
	}
	return r.Resolve(ctx, start)
}
