package auth

import "github.com/yukikurage/task-tracker-api/internal/models"

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID       uint64
	Username string
	Role     models.UserRole
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// CanManageUser reports whether actor may edit target's profile.
func CanManageUser(actor *Actor, targetID uint64) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.ID == targetID
}

// CanSetRole reports whether actor may change any user's role.
func CanSetRole(actor *Actor) bool {
	return actor.IsAdmin()
}

// CanDeleteUser reports whether actor may delete target. Admins cannot delete themselves.
func CanDeleteUser(actor *Actor, targetID uint64) bool {
	return actor.IsAdmin() && actor.ID != targetID
}

// PermittedRole drops a requested role change the actor is not allowed to make.
func PermittedRole(actor *Actor, requested *models.UserRole) *models.UserRole {
	if requested == nil || !CanSetRole(actor) {
		return nil
	}
	return requested
}
