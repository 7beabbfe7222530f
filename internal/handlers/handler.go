package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/middleware"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// requireActor returns the authenticated actor or writes a 401.
func requireActor(c *gin.Context) (*auth.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Respond(c, auth.ErrUnauthenticated)
		return nil, false
	}
	return actor, true
}

// requireParamID returns the id parsed by middleware.RequireIDParam.
func requireParamID(c *gin.Context) (uint64, bool) {
	id, ok := middleware.GetParamID(c)
	if !ok {
		apierrors.BadRequest(c, "Invalid ID")
		return 0, false
	}
	return id, true
}

// bindJSON binds the body into req and writes a 400 on failure. Validator
// failures carry per-field details.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if details := utils.ValidationDetails(err); details != nil {
		apierrors.BadRequestWithDetails(c, utils.FormatValidationError(err), details)
	} else {
		apierrors.BadRequest(c, utils.FormatValidationError(err))
	}
	return false
}
