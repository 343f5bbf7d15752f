// Package dto provides data transfer objects for the work item endpoints.
package dto

import (
	"time"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

// WorkItemResponse represents a work item in API responses. The payload is included
// so failed transfers can be inspected.
type WorkItemResponse struct {
	ID           string     `json:"id"`
	EventType    string     `json:"event_type"`
	Payload      string     `json:"payload"`
	Status       string     `json:"status"`
	LockedBy     *string    `json:"locked_by,omitempty"`
	LockedUntil  *time.Time `json:"locked_until,omitempty"`
	RetryCount   int        `json:"retry_count"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// ListWorkItemsResponse is a page of work items.
type ListWorkItemsResponse struct {
	Data []WorkItemResponse `json:"data"`
}

// WorkItemStatsResponse holds item counts keyed by status.
type WorkItemStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// MapWorkItemToResponse converts a domain work item to an API response.
func MapWorkItemToResponse(item *queueDomain.WorkItem) WorkItemResponse {
	return WorkItemResponse{
		ID:           item.ID.String(),
		EventType:    item.EventType,
		Payload:      item.Payload,
		Status:       string(item.Status),
		LockedBy:     item.LockedBy,
		LockedUntil:  item.LockedUntil,
		RetryCount:   item.RetryCount,
		ErrorMessage: item.ErrorMessage,
		CreatedAt:    item.CreatedAt,
		ProcessedAt:  item.ProcessedAt,
	}
}

// MapWorkItemsToListResponse converts domain work items to a list response.
func MapWorkItemsToListResponse(items []*queueDomain.WorkItem) ListWorkItemsResponse {
	data := make([]WorkItemResponse, 0, len(items))
	for _, item := range items {
		data = append(data, MapWorkItemToResponse(item))
	}
	return ListWorkItemsResponse{Data: data}
}

// MapStatsToResponse converts status counts to a stats response.
func MapStatsToResponse(counts map[queueDomain.Status]int) WorkItemStatsResponse {
	out := make(map[string]int, len(counts))
	for status, count := range counts {
		out[string(status)] = count
	}
	return WorkItemStatsResponse{Counts: out}
}
