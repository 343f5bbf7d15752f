// Package mocks provides mock implementations of the transfer use cases for handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
	transferUseCase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

// MockTransferUseCase is a mock implementation of TransferUseCase.
type MockTransferUseCase struct {
	mock.Mock
}

// TransferCase mocks the TransferCase method.
func (m *MockTransferUseCase) TransferCase(
	ctx context.Context,
	input transferUseCase.TransferCaseInput,
) (*transferDomain.TransferResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transferDomain.TransferResult), args.Error(1)
}

// TransferBulk mocks the TransferBulk method.
func (m *MockTransferUseCase) TransferBulk(
	ctx context.Context,
	input transferUseCase.BulkTransferInput,
) (*transferDomain.TransferResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transferDomain.TransferResult), args.Error(1)
}
