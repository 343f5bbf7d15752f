// Package http provides HTTP handlers and middleware for case transfer requests.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	"github.com/hmcts/et-case-transfer/internal/httputil"
)

// AuthContextMiddleware carries the caller's bearer credential into the request context
// so case store calls run as the caller. The credential is not verified here.
//
// Missing or malformed Authorization header → 401 Unauthorized.
func AuthContextMiddleware(logger *slog.Logger) gin.HandlerFunc {
	const bearerPrefix = "bearer "

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		ctx := casesDomain.WithAuthContext(c.Request.Context(), casesDomain.AuthContext(header))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
