package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	casesRepository "github.com/hmcts/et-case-transfer/internal/cases/repository"
	"github.com/hmcts/et-case-transfer/internal/database"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	queueRepository "github.com/hmcts/et-case-transfer/internal/queue/repository"
	queueUseCase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
	"github.com/hmcts/et-case-transfer/internal/transfer/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	useCase  TransferUseCase
	cases    *casesRepository.MemoryCaseRepository
	queue    *queueRepository.MemoryWorkItemRepository
	producer service.Producer
}

// failingProducer fails every enqueue after the first allowed ones.
type failingProducer struct {
	next    service.Producer
	allowed int
}

func (f *failingProducer) Enqueue(ctx context.Context, eventType string, payload string) (*queueDomain.WorkItem, error) {
	if f.allowed == 0 {
		return nil, context.DeadlineExceeded
	}
	f.allowed--
	return f.next.Enqueue(ctx, eventType, payload)
}

func buildUseCase(
	txManager database.TxManager,
	cases CaseStore,
	producer service.Producer,
	directory *casesDomain.OfficeDirectory,
) TransferUseCase {
	logger := discardLogger()
	builder := service.NewEventBuilder()
	selector := service.NewStrategySelector(
		directory,
		service.NewSameJurisdictionStrategy(cases, builder),
		service.NewCrossJurisdictionStrategy(cases, builder),
	)
	return NewTransferUseCase(
		txManager,
		cases,
		service.NewResolver(cases, logger),
		service.NewValidator(),
		selector,
		service.NewEventPublisher(producer, logger),
		logger,
	)
}

func newHarness(t *testing.T, cases ...*casesDomain.Case) *harness {
	t.Helper()

	directory := casesDomain.DefaultOfficeDirectory()
	caseRepo := casesRepository.NewMemoryCaseRepository(directory)
	for _, c := range cases {
		require.NoError(t, caseRepo.Create(context.Background(), c))
	}
	queueRepo := queueRepository.NewMemoryWorkItemRepository()
	producer := queueUseCase.NewWorkItemUseCase(queueRepo)

	return &harness{
		useCase:  buildUseCase(database.NoopTxManager{}, caseRepo, producer, directory),
		cases:    caseRepo,
		queue:    queueRepo,
		producer: producer,
	}
}

func newCase(reference, office string, counterClaim string) *casesDomain.Case {
	c := &casesDomain.Case{
		ID:             uuid.Must(uuid.NewV7()),
		Reference:      reference,
		Jurisdiction:   casesDomain.JurisdictionEnglandWales,
		ManagingOffice: office,
		State:          casesDomain.StateAccepted,
		Version:        1,
	}
	if counterClaim != "" {
		c.CounterClaimReference = &counterClaim
	}
	return c
}

func (h *harness) pending(t *testing.T) []*queueDomain.WorkItem {
	t.Helper()

	status := queueDomain.StatusPending
	items, err := h.queue.List(context.Background(), queueDomain.ListFilter{Status: &status, Limit: 100})
	require.NoError(t, err)
	return items
}
