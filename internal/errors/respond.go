package errors

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/task-tracker-api/internal/logger"
)

// Respond writes the HTTP error matching the kind of err. Internal failures
// are logged with their cause and reported with a generic body.
func Respond(c *gin.Context, err error) {
	msg := MessageOf(err)
	switch KindOf(err) {
	case KindUnauthenticated:
		Unauthorized(c, msg)
	case KindForbidden:
		Forbidden(c, msg)
	case KindValidation:
		BadRequest(c, msg)
	case KindNotFound:
		NotFound(c, msg)
	case KindConflict:
		Conflict(c, msg)
	default:
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		InternalError(c)
	}
}
