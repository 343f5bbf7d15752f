// Package dto provides data transfer objects for the transfer endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/hmcts/et-case-transfer/internal/validation"
)

// TransferCaseRequest is the body of POST /v1/transfers.
type TransferCaseRequest struct {
	CaseReference string `json:"case_reference"`
	TargetOffice  string `json:"target_office"`
	Reason        string `json:"reason"`
	PositionType  string `json:"position_type"`
}

// Validate checks if the transfer request is valid.
func (r *TransferCaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CaseReference, validation.Required, customValidation.CaseReference),
		validation.Field(&r.TargetOffice, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// BulkTransferRequest is the body of POST /v1/bulk-transfers. When case_references is
// omitted the container's own list is transferred.
type BulkTransferRequest struct {
	BulkReference  string   `json:"bulk_reference"`
	CaseReferences []string `json:"case_references"`
	TargetOffice   string   `json:"target_office"`
	Reason         string   `json:"reason"`
	PositionType   string   `json:"position_type"`
}

// Validate checks if the bulk transfer request is valid.
func (r *BulkTransferRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BulkReference, validation.Required, customValidation.CaseReference),
		validation.Field(&r.CaseReferences, customValidation.CaseReferences),
		validation.Field(&r.TargetOffice, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}
