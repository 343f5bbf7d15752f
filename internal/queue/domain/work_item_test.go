package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

func TestNewWorkItem(t *testing.T) {
	now := time.Now().UTC()

	item, err := NewWorkItem("case.transfer.same_jurisdiction", `{"x":1}`, now)
	require.NoError(t, err)

	assert.Equal(t, StatusPending, item.Status)
	assert.Nil(t, item.LockedBy)
	assert.Nil(t, item.LockedUntil)
	assert.Zero(t, item.RetryCount)
	assert.Equal(t, now, item.CreatedAt)
	assert.Equal(t, byte(7), byte(item.ID.Version()))
}

func TestWorkItem_Claimable(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Second)
	future := now.Add(time.Minute)

	tests := []struct {
		name        string
		status      Status
		lockedUntil *time.Time
		want        bool
	}{
		{"PendingNoLease", StatusPending, nil, true},
		{"PendingExpiredLease", StatusPending, &past, true},
		{"PendingLeaseAtNow", StatusPending, &now, true},
		{"PendingLiveLease", StatusPending, &future, false},
		{"ProcessingExpiredLease", StatusProcessing, &past, true},
		{"ProcessingLiveLease", StatusProcessing, &future, false},
		{"ProcessingNoLease", StatusProcessing, nil, false},
		{"Completed", StatusCompleted, nil, false},
		{"Failed", StatusFailed, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &WorkItem{Status: tt.status, LockedUntil: tt.lockedUntil}
			assert.Equal(t, tt.want, item.Claimable(now))
		})
	}
}

func TestWorkItem_HeldBy(t *testing.T) {
	holder := "worker-1"
	other := "worker-2"

	assert.True(t, (&WorkItem{Status: StatusProcessing, LockedBy: &holder}).HeldBy("worker-1"))
	assert.False(t, (&WorkItem{Status: StatusProcessing, LockedBy: &other}).HeldBy("worker-1"))
	assert.False(t, (&WorkItem{Status: StatusProcessing}).HeldBy("worker-1"))
	assert.False(t, (&WorkItem{Status: StatusPending, LockedBy: &holder}).HeldBy("worker-1"))
	assert.False(t, (&WorkItem{Status: StatusCompleted}).HeldBy("worker-1"))
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("queued").Valid())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestClaimRequest_Validate(t *testing.T) {
	valid := ClaimRequest{ConsumerID: "worker-1", Limit: 10, LeaseDuration: time.Minute}
	assert.NoError(t, valid.Validate())

	for name, req := range map[string]ClaimRequest{
		"MissingConsumer": {Limit: 10, LeaseDuration: time.Minute},
		"ZeroLimit":       {ConsumerID: "worker-1", LeaseDuration: time.Minute},
		"ZeroLease":       {ConsumerID: "worker-1", Limit: 10},
	} {
		t.Run(name, func(t *testing.T) {
			err := req.Validate()
			assert.ErrorIs(t, err, ErrInvalidClaim)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
