// Package httputil maps application errors to JSON responses and parses common query
// parameters for the gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Order matters: the first matching sentinel wins. An empty message means the error
// text is safe to return.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", ""},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "A dependency is temporarily unavailable"},
}

// HandleErrorGin maps err to a status code and writes a JSON error response. Unknown
// errors become 500 without exposing their text.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	response := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}
	for _, mapping := range errorMappings {
		if apperrors.Is(err, mapping.target) {
			statusCode = mapping.status
			response = ErrorResponse{Error: mapping.code, Message: mapping.message}
			if response.Message == "" {
				response.Message = err.Error()
			}
			break
		}
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: err.Error()})
}

// HandleValidationErrorGin writes a 422 response for request validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_error", Message: err.Error()})
}

// HandleTransferBlockedGin writes a 422 response listing the reasons a transfer was
// refused. Nothing was changed when this response is sent.
func HandleTransferBlockedGin(c *gin.Context, messages []string, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("transfer blocked", slog.Any("messages", messages))
	}
	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:    "transfer_blocked",
		Message:  "One or more cases cannot be transferred",
		Messages: messages,
	})
}
