package domain

import (
	"fmt"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// Transfer errors.
var (
	// ErrNoCasesFound indicates a transfer that resolved to no cases at all.
	ErrNoCasesFound = apperrors.Wrap(apperrors.ErrNotFound, "no cases found")

	// ErrSameOffice indicates a transfer to the office already managing the case.
	ErrSameOffice = apperrors.Wrap(apperrors.ErrInvalidInput, "case is already managed by the target office")

	// ErrInvalidPayload indicates a work item payload that is not a transfer event.
	ErrInvalidPayload = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid transfer event payload")

	// ErrResolutionFailed indicates a linked case could not be fetched.
	ErrResolutionFailed = apperrors.New("linked case resolution failed")

	// ErrEnqueueFailed indicates a transfer event could not be queued.
	ErrEnqueueFailed = apperrors.New("failed to enqueue transfer event")
)

// wrapBoth keeps both the failure kind and its cause in the error chain, so
// callers can test for ErrResolutionFailed and still map the cause.
func wrapBoth(kind error, detail string, cause error) error {
	return fmt.Errorf("%w: %s: %w", kind, detail, cause)
}

// NewResolutionError reports a failed lookup of reference during resolution.
func NewResolutionError(reference string, cause error) error {
	return wrapBoth(ErrResolutionFailed, reference, cause)
}

// NewEnqueueError reports a failed enqueue of the event for reference.
func NewEnqueueError(reference string, cause error) error {
	return wrapBoth(ErrEnqueueFailed, reference, cause)
}
