package dto

import (
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

// TransferResponse reports what a transfer changed and queued.
type TransferResponse struct {
	Strategy     string   `json:"strategy"`
	UpdatedCases []string `json:"updated_cases"`
	WorkItemIDs  []string `json:"work_item_ids"`
	Errors       []string `json:"errors,omitempty"`
}

// MapResultToResponse converts a transfer result to an API response.
func MapResultToResponse(result *transferDomain.TransferResult) TransferResponse {
	ids := make([]string, 0, len(result.WorkItems))
	for _, item := range result.WorkItems {
		ids = append(ids, item.ID.String())
	}
	updated := result.UpdatedCases
	if updated == nil {
		updated = []string{}
	}
	return TransferResponse{
		Strategy:     string(result.Strategy),
		UpdatedCases: updated,
		WorkItemIDs:  ids,
		Errors:       result.Errors,
	}
}
