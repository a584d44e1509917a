package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teakspice-catalog/internal/apperr"
	"teakspice-catalog/internal/order"
)

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindOutOfStock, apperr.KindLimitExceeded:
		return http.StatusConflict
	case apperr.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as JSON with the status for its kind. Errors with
// no kind are logged and hidden behind a generic message.
func (s *Server) writeError(c *gin.Context, err error) {
	var lines *order.LineFailureError
	if errors.As(err, &lines) {
		c.JSON(http.StatusConflict, gin.H{"error": "insufficient stock", "details": lines.Lines})
		return
	}

	kind := apperr.KindOf(err)
	status := statusOf(kind)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	if kind == apperr.KindUnknown {
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	var e *apperr.Error
	errors.As(err, &e)
	c.JSON(status, gin.H{"error": e.Message, "kind": kind.String()})
}

// badRequest reports a body that could not be bound. It has the same shape as
// a Validation error from writeError.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "kind": apperr.KindValidation.String()})
}
