// Package mocks provides mock implementations of the queue use cases for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// MockWorkItemUseCase is a mock implementation of WorkItemUseCase.
type MockWorkItemUseCase struct {
	mock.Mock
}

// Enqueue mocks the Enqueue method.
func (m *MockWorkItemUseCase) Enqueue(
	ctx context.Context,
	eventType string,
	payload string,
) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, eventType, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

// Get mocks the Get method.
func (m *MockWorkItemUseCase) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

// List mocks the List method.
func (m *MockWorkItemUseCase) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.WorkItem), args.Error(1)
}

// Stats mocks the Stats method.
func (m *MockWorkItemUseCase) Stats(ctx context.Context) (map[queueDomain.Status]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[queueDomain.Status]int), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method.
func (m *MockWorkItemUseCase) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}
