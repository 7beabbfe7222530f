package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// RequireIDParam parses the :id path parameter. label names the resource in
// the error message, e.g. "task".
func RequireIDParam(label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+label+" ID")
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyParamID, id)
		c.Next()
	}
}

// GetParamID returns the id parsed by RequireIDParam
func GetParamID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyParamID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint64)
	return id, ok
}
