package domain

import (
	"fmt"
	"regexp"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// MaxReferenceSequence is the last sequence number a jurisdiction can allocate in a year.
// A sixth digit would make references that transfers no longer accept.
const MaxReferenceSequence = 99999

var referencePattern = regexp.MustCompile(`^\d{6,7}/\d{4}$`)

// FormatReference builds a case reference from a jurisdiction prefix, a per-year
// sequence number and the year, e.g. "6000001/2026". It fails with
// ErrReferenceSequenceExhausted when the result would not be a valid reference.
func FormatReference(prefix string, sequence, year int) (string, error) {
	if sequence < 1 || sequence > MaxReferenceSequence {
		return "", apperrors.Wrapf(ErrReferenceSequenceExhausted, "sequence %d for prefix %s", sequence, prefix)
	}
	reference := fmt.Sprintf("%s%05d/%d", prefix, sequence, year)
	if !IsValidReference(reference) {
		return "", apperrors.Wrapf(ErrReferenceSequenceExhausted, "invalid reference %q", reference)
	}
	return reference, nil
}

// IsValidReference reports whether reference has the "<digits>/<year>" shape.
func IsValidReference(reference string) bool {
	return referencePattern.MatchString(reference)
}
