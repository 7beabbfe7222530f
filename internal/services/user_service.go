package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/logger"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/utils"
)

// UserService handles user administration.
type UserService struct {
	store repository.Store
}

// NewUserService creates a new UserService.
func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// CreateUserInput is an admin request for a new account. An empty Password
// makes the service generate a temporary one.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName *string
	Role     *models.UserRole
}

// CreatedUser carries the generated password, if any, back to the admin once.
type CreatedUser struct {
	User              *models.User
	TemporaryPassword string
}

// UpdateUserInput holds profile changes. Role is ignored unless the actor is an admin.
type UpdateUserInput struct {
	FullName  Patch[string]
	AvatarURL Patch[string]
	Role      *models.UserRole
}

// UserStats counts users overall and per role.
type UserStats struct {
	Total  int64
	ByRole map[models.UserRole]int64
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, wrapInternal("failed to list users", err)
	}
	return users, nil
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id uint64) (*models.User, error) {
	return findUser(ctx, s.store.Users(), id)
}

// Stats counts users per role, zero-filling roles without users.
func (s *UserService) Stats(ctx context.Context, actor *auth.Actor) (*UserStats, error) {
	if err := auth.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}

	counts, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return nil, wrapInternal("failed to count users", err)
	}

	stats := &UserStats{ByRole: make(map[models.UserRole]int64, len(models.UserRoles))}
	for _, role := range models.UserRoles {
		stats.ByRole[role] = 0
	}
	for role, n := range counts {
		stats.ByRole[role] = n
		stats.Total += n
	}
	return stats, nil
}

// Create adds a user with any role on behalf of an admin.
func (s *UserService) Create(ctx context.Context, actor *auth.Actor, input CreateUserInput) (*CreatedUser, error) {
	if err := auth.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}

	role := models.RoleMember
	if input.Role != nil {
		role = *input.Role
	}

	result := &CreatedUser{}
	password := input.Password
	if password == "" {
		generated, err := utils.GenerateTemporaryPassword(constants.TemporaryPasswordLen)
		if err != nil {
			return nil, wrapInternal("failed to generate password", err)
		}
		password = generated
		result.TemporaryPassword = generated
	}

	user, err := newUser(ctx, s.store.Users(), userFields{
		Username: input.Username,
		Email:    input.Email,
		Password: password,
		FullName: input.FullName,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	result.User = user
	return result, nil
}

// Update changes profile fields. A role change from a non-admin is dropped silently.
func (s *UserService) Update(ctx context.Context, actor *auth.Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	if err := auth.AuthorizeUserUpdate(actor, id); err != nil {
		return nil, err
	}

	user, err := findUser(ctx, s.store.Users(), id)
	if err != nil {
		return nil, err
	}

	input.FullName.applyTo(&user.FullName)
	input.AvatarURL.applyTo(&user.AvatarURL)
	if role := auth.PermittedRole(actor, input.Role); role != nil {
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *role
	}

	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, wrapInternal("failed to update user", err)
	}
	return user, nil
}

// ResetPassword replaces the password of the actor or, for admins, any user.
func (s *UserService) ResetPassword(ctx context.Context, actor *auth.Actor, id uint64, password string) error {
	if err := auth.AuthorizeUserUpdate(actor, id); err != nil {
		return err
	}
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return wrapInternal("failed to hash password", err)
	}

	if err := s.store.Users().UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return wrapInternal("failed to update password", err)
	}
	return nil
}

// Delete removes a user. Tasks, comments and history entries that reference
// the user survive with the reference cleared; assignments are removed.
func (s *UserService) Delete(ctx context.Context, actor *auth.Actor, id uint64) error {
	if err := auth.AuthorizeUserDelete(actor, id); err != nil {
		return err
	}

	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if _, err := findUser(ctx, tx.Users(), id); err != nil {
			return err
		}
		if err := tx.Tasks().ClearUserReferences(ctx, id); err != nil {
			return err
		}
		if err := tx.Comments().ClearAuthor(ctx, id); err != nil {
			return err
		}
		if err := tx.History().ClearActor(ctx, id); err != nil {
			return err
		}
		if err := tx.Assignees().DeleteByUser(ctx, id); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return wrapInternal("failed to delete user", err)
	}
	return nil
}

// BootstrapAdmin makes sure an admin account exists when one is configured.
func (s *UserService) BootstrapAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	counts, err := s.store.Users().CountByRole(ctx)
	if err != nil {
		return wrapInternal("failed to count users", err)
	}
	if counts[models.RoleAdmin] > 0 {
		return nil
	}

	existing, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(cfg.AdminEmail))
	switch {
	case err == nil:
		existing.Role = models.RoleAdmin
		if err := s.store.Users().Update(ctx, existing); err != nil {
			return wrapInternal("failed to promote admin", err)
		}
		logger.Log.Info("promoted existing user to admin", zap.Uint64("user_id", existing.ID))
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return wrapInternal("failed to find admin", err)
	}

	user, err := newUser(ctx, s.store.Users(), userFields{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("created bootstrap admin", zap.Uint64("user_id", user.ID), zap.String("email", user.Email))
	return nil
}
