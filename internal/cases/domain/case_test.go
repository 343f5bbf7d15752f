package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCase_CounterClaim(t *testing.T) {
	t.Run("NoReference", func(t *testing.T) {
		c := &Case{Reference: "120001/2021"}
		_, ok := c.CounterClaim()
		assert.False(t, ok)
	})

	t.Run("EmptyReference", func(t *testing.T) {
		empty := ""
		c := &Case{Reference: "120001/2021", CounterClaimReference: &empty}
		_, ok := c.CounterClaim()
		assert.False(t, ok)
	})

	t.Run("WithReference", func(t *testing.T) {
		ref := "120002/2021"
		c := &Case{Reference: "120001/2021", CounterClaimReference: &ref}
		got, ok := c.CounterClaim()
		assert.True(t, ok)
		assert.Equal(t, "120002/2021", got)
	})
}

func TestCase_HasUnclearedActions(t *testing.T) {
	c := &Case{PendingActions: []PendingAction{{ID: "1", Cleared: true}}}
	assert.False(t, c.HasUnclearedActions())

	c.PendingActions = append(c.PendingActions, PendingAction{ID: "2", Cleared: false})
	assert.True(t, c.HasUnclearedActions())
}

func TestCase_HasListedHearings(t *testing.T) {
	c := &Case{Hearings: []Hearing{{ID: "1", Status: HearingStatusHeard}}}
	assert.False(t, c.HasListedHearings())

	c.Hearings = append(c.Hearings, Hearing{ID: "2", Status: HearingStatusListed})
	assert.True(t, c.HasListedHearings())
}

func TestCase_Snapshot(t *testing.T) {
	ref := "120002/2021"
	original := &Case{
		Reference:             "120001/2021",
		CounterClaimReference: &ref,
		Hearings:              []Hearing{{ID: "1", Status: HearingStatusHeard}},
		OfficeChange:          &OfficeChange{Office: "Leeds"},
	}

	snapshot := original.Snapshot()
	snapshot.Hearings[0].Status = HearingStatusListed
	*snapshot.CounterClaimReference = "999999/2021"
	snapshot.OfficeChange.Office = "Manchester"

	assert.Equal(t, HearingStatusHeard, original.Hearings[0].Status)
	assert.Equal(t, "120002/2021", *original.CounterClaimReference)
	assert.Equal(t, "Leeds", original.OfficeChange.Office)
}
