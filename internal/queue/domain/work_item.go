// Package domain defines the durable work queue entities and their lease lifecycle.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// WorkItem is one unit of asynchronous work. Payload is opaque to the queue.
//
// A pending item becomes processing only through an atomic claim that records the
// consumer in LockedBy and the lease expiry in LockedUntil. A processing item whose
// lease has expired is claimable again.
type WorkItem struct {
	ID           uuid.UUID
	EventType    string
	Payload      string
	Status       Status
	LockedBy     *string
	LockedUntil  *time.Time
	RetryCount   int
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ProcessedAt  *time.Time
}

// Claimable reports whether a claim at now may take the item.
func (w *WorkItem) Claimable(now time.Time) bool {
	switch w.Status {
	case StatusPending:
		return w.LockedUntil == nil || !w.LockedUntil.After(now)
	case StatusProcessing:
		return w.LockedUntil != nil && !w.LockedUntil.After(now)
	}
	return false
}

// HeldBy reports whether consumerID holds the item's current lease. Only the holder may
// complete or fail a processing item.
func (w *WorkItem) HeldBy(consumerID string) bool {
	return w.Status == StatusProcessing && w.LockedBy != nil && *w.LockedBy == consumerID
}

// NewWorkItem creates a pending item with a time-ordered ID and no lease.
func NewWorkItem(eventType, payload string, now time.Time) (*WorkItem, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	return &WorkItem{
		ID:        id,
		EventType: eventType,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ClaimRequest describes one claim cycle of a consumer.
type ClaimRequest struct {
	ConsumerID    string
	Limit         int
	LeaseDuration time.Duration
	Now           time.Time
}

// ListFilter selects work items for inspection. A nil Status matches every status.
type ListFilter struct {
	Status *Status
	Offset int
	Limit  int
}
