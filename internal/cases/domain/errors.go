package domain

import (
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// Case store errors.
var (
	// ErrCaseNotFound indicates no case exists with the requested reference.
	ErrCaseNotFound = apperrors.Wrap(apperrors.ErrNotFound, "case not found")

	// ErrBulkNotFound indicates no bulk container exists with the requested reference.
	ErrBulkNotFound = apperrors.Wrap(apperrors.ErrNotFound, "bulk case not found")

	// ErrUnknownOffice indicates the office is not present in the office directory.
	ErrUnknownOffice = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown managing office")

	// ErrUnknownJurisdiction indicates a jurisdiction without configured offices.
	ErrUnknownJurisdiction = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown jurisdiction")

	// ErrReferenceSequenceExhausted indicates no valid case reference is left to allocate.
	ErrReferenceSequenceExhausted = apperrors.Wrap(apperrors.ErrConflict, "case reference sequence exhausted")
)
