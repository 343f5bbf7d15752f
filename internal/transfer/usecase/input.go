package usecase

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/hmcts/et-case-transfer/internal/validation"
)

const (
	maxReasonLength   = 500
	maxPositionLength = 100
)

// TransferCaseInput requests the transfer of one case.
type TransferCaseInput struct {
	CaseReference string
	TargetOffice  string
	Reason        string
	PositionType  string
}

// Validate checks the input shape. Office existence is checked by strategy selection.
func (i TransferCaseInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CaseReference, validation.Required, customValidation.CaseReference),
		validation.Field(&i.TargetOffice, validation.Required, customValidation.NotBlank),
		validation.Field(&i.Reason, validation.Length(0, maxReasonLength)),
		validation.Field(&i.PositionType, validation.Length(0, maxPositionLength)),
	)
}

// BulkTransferInput requests the transfer of the cases of a bulk container. A nil
// CaseReferences transfers the container's own list.
type BulkTransferInput struct {
	BulkReference  string
	CaseReferences []string
	TargetOffice   string
	Reason         string
	PositionType   string
}

// Validate checks the input shape.
func (i BulkTransferInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.BulkReference, validation.Required, customValidation.CaseReference),
		validation.Field(&i.CaseReferences, customValidation.CaseReferences),
		validation.Field(&i.TargetOffice, validation.Required, customValidation.NotBlank),
		validation.Field(&i.Reason, validation.Length(0, maxReasonLength)),
		validation.Field(&i.PositionType, validation.Length(0, maxPositionLength)),
	)
}
