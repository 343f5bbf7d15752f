package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

func TestMapWorkItemToResponse(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	consumer := "worker-1"
	message := "case store unavailable"
	item := &queueDomain.WorkItem{
		ID:           uuid.Must(uuid.NewV7()),
		EventType:    "case.transfer.same_jurisdiction",
		Payload:      `{"case_reference":"120002/2021"}`,
		Status:       queueDomain.StatusProcessing,
		LockedBy:     &consumer,
		LockedUntil:  &now,
		RetryCount:   2,
		ErrorMessage: &message,
		CreatedAt:    now,
	}

	response := MapWorkItemToResponse(item)

	assert.Equal(t, item.ID.String(), response.ID)
	assert.Equal(t, "processing", response.Status)
	assert.Equal(t, &consumer, response.LockedBy)
	assert.Equal(t, 2, response.RetryCount)
	assert.Equal(t, &message, response.ErrorMessage)
	assert.Nil(t, response.ProcessedAt)
}

func TestMapWorkItemsToListResponse(t *testing.T) {
	t.Run("Success_EmptyListIsNotNull", func(t *testing.T) {
		response := MapWorkItemsToListResponse(nil)
		assert.NotNil(t, response.Data)
		assert.Empty(t, response.Data)
	})
}

func TestMapStatsToResponse(t *testing.T) {
	response := MapStatsToResponse(map[queueDomain.Status]int{
		queueDomain.StatusPending: 3,
		queueDomain.StatusFailed:  1,
	})

	assert.Equal(t, map[string]int{"pending": 3, "failed": 1}, response.Counts)
}
