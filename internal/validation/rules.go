// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CaseReference validates the "<sequence>/<year>" case reference format.
var CaseReference = validation.NewStringRuleWithError(
	casesDomain.IsValidReference,
	validation.NewError("validation_case_reference", "must be a case reference like 6000001/2024"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// KnownOffice validates that an office is registered in the directory.
func KnownOffice(directory *casesDomain.OfficeDirectory) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			_, err := directory.Lookup(s)
			return err == nil
		},
		validation.NewError("validation_known_office", "must be a known managing office"),
	)
}

// CaseReferences validates every element of a []string as a case reference.
var CaseReferences = validation.Each(CaseReference)
