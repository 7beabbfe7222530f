package auth

import (
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

var (
	ErrUnauthenticated = apierrors.New(apierrors.KindUnauthenticated, "Authentication required")
	ErrAdminOnly       = apierrors.New(apierrors.KindForbidden, "Admin privileges required")
	ErrNotSelfOrAdmin  = apierrors.New(apierrors.KindForbidden, "You can only manage your own account")
	ErrSelfDelete      = apierrors.New(apierrors.KindForbidden, "You cannot delete your own account")
	ErrNotTaskMember   = apierrors.New(apierrors.KindForbidden, "Only the creator, PA, assignees or an admin can modify this task")
)

// RequireActor fails with Unauthenticated when no identity was resolved.
func RequireActor(actor *Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// AuthorizeAdmin guards user creation, deletion and stats.
func AuthorizeAdmin(actor *Actor) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

// AuthorizeUserUpdate guards profile updates and password resets.
func AuthorizeUserUpdate(actor *Actor, targetID uint64) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !CanManageUser(actor, targetID) {
		return ErrNotSelfOrAdmin
	}
	return nil
}

func AuthorizeUserDelete(actor *Actor, targetID uint64) error {
	if err := AuthorizeAdmin(actor); err != nil {
		return err
	}
	if !CanDeleteUser(actor, targetID) {
		return ErrSelfDelete
	}
	return nil
}

// TaskPolicy decides who may update or delete a task.
type TaskPolicy struct {
	// StrictOwnership limits mutations to participants and admins. When false any
	// authenticated actor may mutate any task.
	StrictOwnership bool
}

// AuthorizeTaskMutation guards task update and delete. task must have its
// assignees loaded when StrictOwnership is set.
func (p TaskPolicy) AuthorizeTaskMutation(actor *Actor, task *models.Task) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !p.StrictOwnership || actor.IsAdmin() || task.IsParticipant(actor.ID) {
		return nil
	}
	return ErrNotTaskMember
}
