package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/libmanage/internal/middleware"
	"github.com/snnyvrz/libmanage/internal/service"
	"github.com/snnyvrz/libmanage/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeServiceError maps a service failure to its HTTP status. Internal
// failures are logged with their cause; the client only sees the message.
func writeServiceError(c *gin.Context, err error) {
	kind := service.KindOf(err)

	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch kind {
	case service.KindInvalidInput:
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case service.KindUnauthorized:
		status, code = http.StatusUnauthorized, "UNAUTHORIZED"
	case service.KindNotFound:
		status, code = http.StatusNotFound, "NOT_FOUND"
	case service.KindConflict:
		status, code = http.StatusConflict, "CONFLICT"
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	writeError(c, status, code, service.MessageOf(err))
}
