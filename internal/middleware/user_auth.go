package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

// RequireAdmin rejects actors without the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := GetActor(c)
		if err := auth.AuthorizeAdmin(actor); err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin lets a user act on their own account and admins act on any.
// Must run after RequireIDParam.
func RequireSelfOrAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := GetActor(c)
		targetID, ok := GetParamID(c)
		if !ok {
			apierrors.InternalError(c)
			c.Abort()
			return
		}
		if err := auth.AuthorizeUserUpdate(actor, targetID); err != nil {
			apierrors.Respond(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
