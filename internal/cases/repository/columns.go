// Package repository implements case store persistence for PostgreSQL, MySQL and memory.
//
// Pending actions, hearings and the office-change marker are stored as JSON documents on
// the case row. Destination cases created by a cross-jurisdiction transfer are unique per
// (jurisdiction, transferred_from), which makes CreateInJurisdiction safe to retry.
package repository

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

const caseColumns = `id, reference, jurisdiction, managing_office, state, position_type,
	counter_claim_reference, pending_actions, hearings, office_change, transferred_to,
	transferred_from, transfer_reason, version, created_at, updated_at`

// jsonColumns holds the encoded JSON documents of a case row.
type jsonColumns struct {
	pendingActions []byte
	hearings       []byte
	officeChange   []byte
}

func encodeCaseColumns(c *casesDomain.Case) (*jsonColumns, error) {
	actions := c.PendingActions
	if actions == nil {
		actions = []casesDomain.PendingAction{}
	}
	hearings := c.Hearings
	if hearings == nil {
		hearings = []casesDomain.Hearing{}
	}

	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal pending actions")
	}
	hearingsJSON, err := json.Marshal(hearings)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal hearings")
	}

	cols := &jsonColumns{pendingActions: actionsJSON, hearings: hearingsJSON}
	if c.OfficeChange != nil {
		cols.officeChange, err = encodeOfficeChange(*c.OfficeChange)
		if err != nil {
			return nil, err
		}
	}
	return cols, nil
}

func encodeOfficeChange(change casesDomain.OfficeChange) ([]byte, error) {
	data, err := json.Marshal(change)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal office change")
	}
	return data, nil
}

func (j *jsonColumns) decodeInto(c *casesDomain.Case) error {
	if len(j.pendingActions) > 0 {
		if err := json.Unmarshal(j.pendingActions, &c.PendingActions); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal pending actions")
		}
	}
	if len(j.hearings) > 0 {
		if err := json.Unmarshal(j.hearings, &c.Hearings); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal hearings")
		}
	}
	if len(j.officeChange) > 0 {
		var change casesDomain.OfficeChange
		if err := json.Unmarshal(j.officeChange, &change); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal office change")
		}
		c.OfficeChange = &change
	}
	return nil
}

// destinationState is the initial state of a case recreated in another jurisdiction.
func destinationState(confirmationRequired bool) casesDomain.State {
	if confirmationRequired {
		return casesDomain.StateAwaitingConfirmation
	}
	return casesDomain.StateSubmitted
}

// newDestinationCase prepares the row for a case recreated from snapshot under the
// reference allocated as sequence in the current year. The counter-claim link is left
// unset: it names a case in the source jurisdiction until the pair is relinked.
func newDestinationCase(
	prefix string,
	sequence int,
	jurisdiction casesDomain.Jurisdiction,
	office string,
	snapshot *casesDomain.Case,
	confirmationRequired bool,
	now time.Time,
) (*casesDomain.Case, error) {
	reference, err := casesDomain.FormatReference(prefix, sequence, now.Year())
	if err != nil {
		return nil, err
	}
	newID, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate case id")
	}

	source := snapshot.Reference
	destination := snapshot.Snapshot()
	destination.ID = newID
	destination.Reference = reference
	destination.Jurisdiction = jurisdiction
	destination.ManagingOffice = office
	destination.State = destinationState(confirmationRequired)
	destination.CounterClaimReference = nil
	destination.OfficeChange = nil
	destination.TransferredTo = nil
	destination.TransferredFrom = &source
	destination.Version = 1
	destination.CreatedAt = now
	destination.UpdatedAt = now
	return destination, nil
}
