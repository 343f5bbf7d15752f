package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmcts/et-case-transfer/internal/httputil"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
	"github.com/hmcts/et-case-transfer/internal/transfer/http/dto"
	transferUseCase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
	customValidation "github.com/hmcts/et-case-transfer/internal/validation"
)

// TransferHandler handles case and bulk transfer requests.
type TransferHandler struct {
	transferUseCase transferUseCase.TransferUseCase
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(useCase transferUseCase.TransferUseCase, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferUseCase: useCase,
		logger:          logger,
	}
}

// TransferCaseHandler transfers a case and its linked cases.
// POST /v1/transfers
// Returns 200 OK with the updated cases and queued work items, or 422 when validation
// blocked the transfer.
func (h *TransferHandler) TransferCaseHandler(c *gin.Context) {
	var req dto.TransferCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.transferUseCase.TransferCase(c.Request.Context(), transferUseCase.TransferCaseInput{
		CaseReference: req.CaseReference,
		TargetOffice:  req.TargetOffice,
		Reason:        req.Reason,
		PositionType:  req.PositionType,
	})
	h.respond(c, result, err)
}

// TransferBulkHandler transfers the cases of a bulk container.
// POST /v1/bulk-transfers
// A same-jurisdiction bulk transfer that queued some groups returns 200 OK with the
// messages of the blocked ones.
func (h *TransferHandler) TransferBulkHandler(c *gin.Context) {
	var req dto.BulkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.transferUseCase.TransferBulk(c.Request.Context(), transferUseCase.BulkTransferInput{
		BulkReference:  req.BulkReference,
		CaseReferences: req.CaseReferences,
		TargetOffice:   req.TargetOffice,
		Reason:         req.Reason,
		PositionType:   req.PositionType,
	})
	h.respond(c, result, err)
}

func (h *TransferHandler) respond(c *gin.Context, result *transferDomain.TransferResult, err error) {
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if result.Blocked() && len(result.WorkItems) == 0 && len(result.UpdatedCases) == 0 {
		httputil.HandleTransferBlockedGin(c, result.Errors, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapResultToResponse(result))
}
