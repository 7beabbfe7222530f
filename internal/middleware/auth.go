package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/token"
)

// RequireAuth checks the bearer token, loads its user and stores the actor in
// context. The stored role wins over the role in the token, and tokens of
// deleted users are rejected.
func RequireAuth(tokens *token.Manager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if !strings.HasPrefix(header, constants.HeaderBearerPrefix) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, constants.HeaderBearerPrefix)))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "Invalid or expired token")
			} else {
				apierrors.Respond(c, apierrors.Internal("failed to load token user", err))
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, &auth.Actor{ID: user.ID, Username: user.Username, Role: user.Role})
		c.Next()
	}
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (*auth.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*auth.Actor)
	if !ok || actor == nil {
		return nil, false
	}
	return actor, true
}
