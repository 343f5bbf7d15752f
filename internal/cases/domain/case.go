// Package domain defines the tribunal case records that transfers operate on.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Jurisdiction identifies the legal jurisdiction a case is registered under.
type Jurisdiction string

const (
	JurisdictionEnglandWales Jurisdiction = "ET_EnglandWales"
	JurisdictionScotland     Jurisdiction = "ET_Scotland"
)

// State is the lifecycle state of a case.
type State string

const (
	StateSubmitted            State = "Submitted"
	StateAccepted             State = "Accepted"
	StateAwaitingConfirmation State = "AwaitingConfirmation"
	StateTransferred          State = "Transferred"
	StateClosed               State = "Closed"
)

// HearingStatus is the status of a single hearing on a case.
type HearingStatus string

const (
	HearingStatusListed    HearingStatus = "Listed"
	HearingStatusHeard     HearingStatus = "Heard"
	HearingStatusPostponed HearingStatus = "Postponed"
	HearingStatusWithdrawn HearingStatus = "Withdrawn"
	HearingStatusVacated   HearingStatus = "Vacated"
)

// PendingAction is an outstanding brought-forward action attached to a case.
type PendingAction struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Cleared     bool   `json:"cleared"`
}

// Hearing is a hearing record on a case.
type Hearing struct {
	ID     string        `json:"id"`
	Number string        `json:"number"`
	Status HearingStatus `json:"status"`
}

// OfficeChange describes a requested move of a case to another managing office.
// When stored on a case it is the pending office-change marker.
type OfficeChange struct {
	Office       string `json:"office"`
	Reason       string `json:"reason,omitempty"`
	PositionType string `json:"position_type,omitempty"`
}

// Case is a tribunal case record.
type Case struct {
	ID                    uuid.UUID
	Reference             string
	Jurisdiction          Jurisdiction
	ManagingOffice        string
	State                 State
	PositionType          string
	CounterClaimReference *string
	PendingActions        []PendingAction
	Hearings              []Hearing
	OfficeChange          *OfficeChange
	TransferredTo         *string
	TransferredFrom       *string
	TransferReason        string
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CounterClaim returns the counter-claim reference and whether one is set.
func (c *Case) CounterClaim() (string, bool) {
	if c.CounterClaimReference == nil || *c.CounterClaimReference == "" {
		return "", false
	}
	return *c.CounterClaimReference, true
}

// HasUnclearedActions reports whether any pending action has not been cleared.
func (c *Case) HasUnclearedActions() bool {
	for _, action := range c.PendingActions {
		if !action.Cleared {
			return true
		}
	}
	return false
}

// HasListedHearings reports whether any hearing is listed but not yet heard.
func (c *Case) HasListedHearings() bool {
	for _, hearing := range c.Hearings {
		if hearing.Status == HearingStatusListed {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the case suitable for recreating it elsewhere.
// Slices and pointers are copied so the snapshot can be mutated independently.
func (c *Case) Snapshot() *Case {
	snapshot := *c
	snapshot.PendingActions = append([]PendingAction(nil), c.PendingActions...)
	snapshot.Hearings = append([]Hearing(nil), c.Hearings...)
	if c.CounterClaimReference != nil {
		ref := *c.CounterClaimReference
		snapshot.CounterClaimReference = &ref
	}
	if c.OfficeChange != nil {
		change := *c.OfficeChange
		snapshot.OfficeChange = &change
	}
	return &snapshot
}
