package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hmcts/et-case-transfer/internal/metrics"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

type mockWorkItemRepository struct {
	mock.Mock
}

func (m *mockWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockWorkItemRepository) Claim(
	ctx context.Context,
	req queueDomain.ClaimRequest,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, req)
	items, _ := args.Get(0).([]*queueDomain.WorkItem)
	return items, args.Error(1)
}

func (m *mockWorkItemRepository) Complete(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	now time.Time,
) error {
	return m.Called(ctx, id, consumerID, now).Error(0)
}

func (m *mockWorkItemRepository) Fail(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	errorMessage string,
	retryCount int,
	maxRetries int,
	now time.Time,
) (queueDomain.Status, error) {
	args := m.Called(ctx, id, consumerID, errorMessage, retryCount, maxRetries, now)
	return args.Get(0).(queueDomain.Status), args.Error(1)
}

func (m *mockWorkItemRepository) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*queueDomain.WorkItem)
	return item, args.Error(1)
}

func (m *mockWorkItemRepository) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*queueDomain.WorkItem)
	return items, args.Error(1)
}

func (m *mockWorkItemRepository) CountByStatus(ctx context.Context) (map[queueDomain.Status]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[queueDomain.Status]int)
	return counts, args.Error(1)
}

func (m *mockWorkItemRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockWorkItemUseCase struct {
	mock.Mock
}

func (m *mockWorkItemUseCase) Enqueue(
	ctx context.Context,
	eventType string,
	payload string,
) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, eventType, payload)
	item, _ := args.Get(0).(*queueDomain.WorkItem)
	return item, args.Error(1)
}

func (m *mockWorkItemUseCase) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(*queueDomain.WorkItem)
	return item, args.Error(1)
}

func (m *mockWorkItemUseCase) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*queueDomain.WorkItem)
	return items, args.Error(1)
}

func (m *mockWorkItemUseCase) Stats(ctx context.Context) (map[queueDomain.Status]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[queueDomain.Status]int)
	return counts, args.Error(1)
}

func (m *mockWorkItemUseCase) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordTransferredCases(ctx context.Context, strategy string, updated, queued int) {
	m.Called(ctx, strategy, updated, queued)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

// processorFunc adapts a function to Processor.
type processorFunc func(ctx context.Context, item *queueDomain.WorkItem) error

func (f processorFunc) Process(ctx context.Context, item *queueDomain.WorkItem) error {
	return f(ctx, item)
}
