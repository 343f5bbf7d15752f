package repository

import (
	"context"
	"sync"
	"time"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
)

type counterKey struct {
	jurisdiction casesDomain.Jurisdiction
	year         int
}

// MemoryCaseRepository is a mutex-guarded in-process case store. Stored and returned
// cases are copies. The container never selects it; transfer tests in other packages
// run against it.
type MemoryCaseRepository struct {
	mu        sync.Mutex
	directory *casesDomain.OfficeDirectory
	cases     map[string]*casesDomain.Case
	bulks     map[string]*casesDomain.BulkCase
	counters  map[counterKey]int
	now       func() time.Time
}

// Create stores a case.
func (r *MemoryCaseRepository) Create(_ context.Context, c *casesDomain.Case) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cases[c.Reference] = c.Snapshot()
	return nil
}

// GetByReference returns a copy of the stored case.
func (r *MemoryCaseRepository) GetByReference(
	_ context.Context,
	reference string,
) (*casesDomain.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[reference]
	if !ok {
		return nil, casesDomain.ErrCaseNotFound
	}
	return c.Snapshot(), nil
}

// UpdateManagingOffice moves a case to another office and clears its office-change marker.
func (r *MemoryCaseRepository) UpdateManagingOffice(
	_ context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[reference]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	c.ManagingOffice = change.Office
	if change.PositionType != "" {
		c.PositionType = change.PositionType
	}
	c.TransferReason = change.Reason
	c.OfficeChange = nil
	r.touch(c)
	return nil
}

// MarkTransferred sets the transferred state on the source case of a cross-jurisdiction
// transfer.
func (r *MemoryCaseRepository) MarkTransferred(
	_ context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[reference]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	c.State = casesDomain.StateTransferred
	if change.PositionType != "" {
		c.PositionType = change.PositionType
	}
	c.TransferReason = change.Reason
	c.OfficeChange = &change
	r.touch(c)
	return nil
}

// CreateInJurisdiction recreates snapshot in jurisdiction, returning the existing
// destination when one was already created for the same source.
func (r *MemoryCaseRepository) CreateInJurisdiction(
	_ context.Context,
	jurisdiction casesDomain.Jurisdiction,
	office string,
	snapshot *casesDomain.Case,
	confirmationRequired bool,
) (string, error) {
	prefix, err := r.directory.ReferencePrefix(jurisdiction)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.cases {
		if c.Jurisdiction == jurisdiction && c.TransferredFrom != nil && *c.TransferredFrom == snapshot.Reference {
			return c.Reference, nil
		}
	}

	now := r.now().UTC()
	key := counterKey{jurisdiction: jurisdiction, year: now.Year()}

	destination, err := newDestinationCase(
		prefix,
		r.counters[key]+1,
		jurisdiction,
		office,
		snapshot,
		confirmationRequired,
		now,
	)
	if err != nil {
		return "", err
	}
	r.counters[key]++
	r.cases[destination.Reference] = destination
	return destination.Reference, nil
}

// LinkTransferred points the source case at its destination.
func (r *MemoryCaseRepository) LinkTransferred(
	_ context.Context,
	sourceReference string,
	destinationReference string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[sourceReference]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	if c.TransferredTo != nil && *c.TransferredTo == destinationReference {
		return nil
	}
	c.TransferredTo = &destinationReference
	c.State = casesDomain.StateTransferred
	c.OfficeChange = nil
	r.touch(c)
	return nil
}

// LinkCounterClaims makes reference and counterpart each other's counter-claim.
func (r *MemoryCaseRepository) LinkCounterClaims(
	_ context.Context,
	reference string,
	counterpart string,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	first, ok := r.cases[reference]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	second, ok := r.cases[counterpart]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	for c, counterClaim := range map[*casesDomain.Case]string{first: counterpart, second: reference} {
		if current, ok := c.CounterClaim(); ok && current == counterClaim {
			continue
		}
		value := counterClaim
		c.CounterClaimReference = &value
		r.touch(c)
	}
	return nil
}

// CreateBulk stores a bulk container.
func (r *MemoryCaseRepository) CreateBulk(_ context.Context, bulk *casesDomain.BulkCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *bulk
	stored.CaseReferences = append([]string(nil), bulk.CaseReferences...)
	r.bulks[bulk.Reference] = &stored
	return nil
}

// GetBulkByReference returns a copy of the stored bulk container.
func (r *MemoryCaseRepository) GetBulkByReference(
	_ context.Context,
	reference string,
) (*casesDomain.BulkCase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bulk, ok := r.bulks[reference]
	if !ok {
		return nil, casesDomain.ErrBulkNotFound
	}
	stored := *bulk
	stored.CaseReferences = append([]string(nil), bulk.CaseReferences...)
	return &stored, nil
}

func (r *MemoryCaseRepository) touch(c *casesDomain.Case) {
	c.Version++
	c.UpdatedAt = r.now().UTC()
}

// NewMemoryCaseRepository creates an empty in-memory case store.
func NewMemoryCaseRepository(directory *casesDomain.OfficeDirectory) *MemoryCaseRepository {
	return &MemoryCaseRepository{
		directory: directory,
		cases:     make(map[string]*casesDomain.Case),
		bulks:     make(map[string]*casesDomain.BulkCase),
		counters:  make(map[counterKey]int),
		now:       time.Now,
	}
}
