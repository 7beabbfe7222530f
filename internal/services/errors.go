package services

import (
	"errors"

	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
)

var (
	ErrUsernameRequired   = apierrors.Validation("username is required")
	ErrInvalidEmail       = apierrors.Validation("a valid email is required")
	ErrPasswordTooShort   = apierrors.Validation("password must be at least %d characters", constants.MinPasswordLength)
	ErrUsernameTaken      = apierrors.New(apierrors.KindConflict, "username already exists")
	ErrEmailTaken         = apierrors.New(apierrors.KindConflict, "email already exists")
	ErrAccountTaken       = apierrors.New(apierrors.KindConflict, "username or email already exists")
	ErrInvalidCredentials = apierrors.New(apierrors.KindUnauthenticated, "invalid email or password")
	ErrUserNotFound       = apierrors.New(apierrors.KindNotFound, "user not found")
	ErrInvalidRole        = apierrors.Validation("role must be one of: admin, member, pa")

	ErrTaskNotFound        = apierrors.New(apierrors.KindNotFound, "task not found")
	ErrTitleRequired       = apierrors.Validation("title is required")
	ErrInvalidStatus       = apierrors.Validation("status must be one of: pending, in_progress, completed, cancelled")
	ErrInvalidPriority     = apierrors.Validation("priority must be one of: low, medium, high, urgent")
	ErrInvalidTaskAssignee = apierrors.Validation("one or more assignees do not exist")
	ErrInvalidPA           = apierrors.Validation("paId does not reference an existing user")
	ErrInvalidDuration     = apierrors.Validation("estimatedDuration must not be negative")
	ErrCommentEmpty        = apierrors.Validation("content is required")
)

// wrapInternal classifies an unexpected failure, leaving domain errors untouched.
func wrapInternal(message string, err error) error {
	var classified *apierrors.Error
	if errors.As(err, &classified) {
		return err
	}
	return apierrors.Internal(message, err)
}
