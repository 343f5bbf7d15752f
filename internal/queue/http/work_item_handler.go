// Package http provides read-only HTTP handlers for inspecting the work queue.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hmcts/et-case-transfer/internal/httputil"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	"github.com/hmcts/et-case-transfer/internal/queue/http/dto"
	queueUseCase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
)

// WorkItemHandler serves work item inspection requests.
type WorkItemHandler struct {
	workItemUseCase queueUseCase.WorkItemUseCase
	logger          *slog.Logger
}

// NewWorkItemHandler creates a new work item handler.
func NewWorkItemHandler(workItemUseCase queueUseCase.WorkItemUseCase, logger *slog.Logger) *WorkItemHandler {
	return &WorkItemHandler{
		workItemUseCase: workItemUseCase,
		logger:          logger,
	}
}

// ListHandler lists work items oldest first.
// GET /v1/work-items?status=failed&offset=0&limit=50
func (h *WorkItemHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	filter := queueDomain.ListFilter{Offset: offset, Limit: limit}
	if raw := c.Query("status"); raw != "" {
		status := queueDomain.Status(raw)
		if !status.Valid() {
			httputil.HandleValidationErrorGin(
				c,
				fmt.Errorf("invalid status parameter: must be one of pending, processing, completed, failed"),
				h.logger,
			)
			return
		}
		filter.Status = &status
	}

	items, err := h.workItemUseCase.List(c.Request.Context(), filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemsToListResponse(items))
}

// GetHandler returns a single work item.
// GET /v1/work-items/:id
func (h *WorkItemHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid work item id: %w", err), h.logger)
		return
	}

	item, err := h.workItemUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkItemToResponse(item))
}

// StatsHandler returns item counts per status.
// GET /v1/work-items/stats
func (h *WorkItemHandler) StatsHandler(c *gin.Context) {
	counts, err := h.workItemUseCase.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatsToResponse(counts))
}
