package domain

import (
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// Work queue errors.
var (
	// ErrWorkItemNotFound indicates no work item exists with the given ID.
	ErrWorkItemNotFound = apperrors.Wrap(apperrors.ErrNotFound, "work item not found")

	// ErrInvalidClaim indicates a claim request without a consumer, limit or lease.
	ErrInvalidClaim = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid claim request")

	// ErrLeaseLost indicates a complete or fail from a consumer that no longer holds the lease.
	ErrLeaseLost = apperrors.Wrap(apperrors.ErrConflict, "work item lease lost")

	// ErrInvalidStatus indicates an unknown work item status.
	ErrInvalidStatus = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid work item status")
)

// Validate checks that the claim can be executed.
func (r ClaimRequest) Validate() error {
	if r.ConsumerID == "" || r.Limit <= 0 || r.LeaseDuration <= 0 {
		return ErrInvalidClaim
	}
	return nil
}

// ErrUnknownEventType indicates a work item whose event type has no registered processor.
var ErrUnknownEventType = apperrors.New("unknown work item event type")
