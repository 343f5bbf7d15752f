package domain

import (
	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
)

// LinkedCaseSet holds the cases reachable from a primary case through counter-claim
// links, deduplicated by reference and kept in discovery order. The primary case is
// always first.
type LinkedCaseSet struct {
	cases []*casesDomain.Case
	index map[string]struct{}
}

// NewLinkedCaseSet creates a set seeded with the primary case.
func NewLinkedCaseSet(primary *casesDomain.Case) *LinkedCaseSet {
	set := &LinkedCaseSet{index: make(map[string]struct{})}
	set.Add(primary)
	return set
}

// Add appends c unless a case with the same reference is already present. It reports
// whether c was added.
func (s *LinkedCaseSet) Add(c *casesDomain.Case) bool {
	if _, ok := s.index[c.Reference]; ok {
		return false
	}
	s.index[c.Reference] = struct{}{}
	s.cases = append(s.cases, c)
	return true
}

// Contains reports whether reference is in the set.
func (s *LinkedCaseSet) Contains(reference string) bool {
	_, ok := s.index[reference]
	return ok
}

// Primary returns the case the resolution started from.
func (s *LinkedCaseSet) Primary() *casesDomain.Case {
	return s.cases[0]
}

// Linked returns every case except the primary, in discovery order.
func (s *LinkedCaseSet) Linked() []*casesDomain.Case {
	return s.cases[1:]
}

// Cases returns every case in discovery order.
func (s *LinkedCaseSet) Cases() []*casesDomain.Case {
	return s.cases
}

// References returns the case references in discovery order.
func (s *LinkedCaseSet) References() []string {
	refs := make([]string, 0, len(s.cases))
	for _, c := range s.cases {
		refs = append(refs, c.Reference)
	}
	return refs
}

// Len returns the number of cases in the set.
func (s *LinkedCaseSet) Len() int {
	return len(s.cases)
}
