// Package domain defines the values exchanged between the transfer pipeline and the work
// queue: the resolved set of linked cases and the per-case transfer event.
package domain

import (
	"encoding/json"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// Work item event types produced by the transfer strategies.
const (
	EventTypeSameJurisdiction  = "case.transfer.same_jurisdiction"
	EventTypeCrossJurisdiction = "case.transfer.cross_jurisdiction"
)

// Default position labels applied to transferred cases.
const (
	PositionSameJurisdiction  = "Case transferred - same country"
	PositionCrossJurisdiction = "Case transferred to other country"
)

// TransferEventParams describes the asynchronous transfer of one case. It is built once,
// serialised into a work item and consumed by exactly one successful processing.
type TransferEventParams struct {
	CaseReference        string                   `json:"case_reference"`
	SourceJurisdiction   casesDomain.Jurisdiction `json:"source_jurisdiction"`
	SourceOffice         string                   `json:"source_office"`
	TargetOffice         string                   `json:"target_office"`
	TargetJurisdiction   casesDomain.Jurisdiction `json:"target_jurisdiction"`
	Reason               string                   `json:"reason,omitempty"`
	PositionType         string                   `json:"position_type"`
	SameJurisdiction     bool                     `json:"same_jurisdiction"`
	ConfirmationRequired bool                     `json:"confirmation_required"`
	LinkedCaseReferences []string                 `json:"linked_case_references"`

	// Set when the transfer was driven by a bulk container.
	MultipleReference     string `json:"multiple_reference,omitempty"`
	MultipleReferenceLink string `json:"multiple_reference_link,omitempty"`
}

// EventType returns the work item event type for the params.
func (p TransferEventParams) EventType() string {
	if p.SameJurisdiction {
		return EventTypeSameJurisdiction
	}
	return EventTypeCrossJurisdiction
}

// Bulk reports whether the params target a case inside a bulk container.
func (p TransferEventParams) Bulk() bool {
	return p.MultipleReference != ""
}

// OfficeChange is the change the params apply to the case.
func (p TransferEventParams) OfficeChange() casesDomain.OfficeChange {
	return casesDomain.OfficeChange{
		Office:       p.TargetOffice,
		Reason:       p.Reason,
		PositionType: p.PositionType,
	}
}

// Encode serialises the params into a work item payload.
func (p TransferEventParams) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encode transfer event")
	}
	return string(data), nil
}

// DecodeTransferEventParams parses a work item payload.
func DecodeTransferEventParams(payload string) (TransferEventParams, error) {
	var params TransferEventParams
	if err := json.Unmarshal([]byte(payload), &params); err != nil {
		return TransferEventParams{}, apperrors.Wrap(ErrInvalidPayload, err.Error())
	}
	if params.CaseReference == "" || params.TargetOffice == "" {
		return TransferEventParams{}, apperrors.Wrap(ErrInvalidPayload, "case reference and target office are required")
	}
	return params, nil
}
