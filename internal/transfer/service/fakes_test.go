package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCaseStore serves cases from a map and counts lookups per reference.
type fakeCaseStore struct {
	mu      sync.Mutex
	cases   map[string]*casesDomain.Case
	lookups map[string]int
	failOn  map[string]error
}

func newFakeCaseStore(cases ...*casesDomain.Case) *fakeCaseStore {
	store := &fakeCaseStore{
		cases:   make(map[string]*casesDomain.Case),
		lookups: make(map[string]int),
		failOn:  make(map[string]error),
	}
	for _, c := range cases {
		store.cases[c.Reference] = c
	}
	return store
}

func (f *fakeCaseStore) GetByReference(_ context.Context, reference string) (*casesDomain.Case, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookups[reference]++
	if err, ok := f.failOn[reference]; ok {
		return nil, err
	}
	c, ok := f.cases[reference]
	if !ok {
		return nil, casesDomain.ErrCaseNotFound
	}
	return c, nil
}

type mockCaseMutator struct {
	mock.Mock
}

func (m *mockCaseMutator) UpdateManagingOffice(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	args := m.Called(ctx, reference, change)
	return args.Error(0)
}

func (m *mockCaseMutator) MarkTransferred(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	args := m.Called(ctx, reference, change)
	return args.Error(0)
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Enqueue(ctx context.Context, eventType string, payload string) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, eventType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

func testCase(reference string, counterClaim string) *casesDomain.Case {
	c := &casesDomain.Case{
		Reference:      reference,
		Jurisdiction:   casesDomain.JurisdictionEnglandWales,
		ManagingOffice: "Leeds",
		State:          casesDomain.StateAccepted,
		CreatedAt:      time.Date(2021, 5, 4, 10, 0, 0, 0, time.UTC),
	}
	if counterClaim != "" {
		c.CounterClaimReference = &counterClaim
	}
	return c
}
