package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/yukikurage/task-tracker-api/internal/auth"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/repository"
	"github.com/yukikurage/task-tracker-api/internal/token"
)

var validate = validator.New()

// AuthService handles authentication related business logic.
type AuthService struct {
	store  repository.Store
	tokens *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.Store, tokens *token.Manager) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// Register creates a member account and signs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	user, err := newUser(ctx, s.store.Users(), userFields{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		FullName: input.FullName,
		Role:     models.RoleMember,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, wrapInternal("failed to find user", err)
	}

	ok, err := auth.CheckPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// CurrentUser loads the account behind the actor's token.
func (s *AuthService) CurrentUser(ctx context.Context, actor *auth.Actor) (*models.User, error) {
	if err := auth.RequireActor(actor); err != nil {
		return nil, err
	}
	return findUser(ctx, s.store.Users(), actor.ID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, wrapInternal("failed to issue token", err)
	}
	return &AuthResult{User: user, Token: signed}, nil
}

type userFields struct {
	Username string
	Email    string
	Password string
	FullName *string
	Role     models.UserRole
}

// newUser validates, hashes and inserts a user.
func newUser(ctx context.Context, users repository.UserRepository, f userFields) (*models.User, error) {
	username := strings.TrimSpace(f.Username)
	email := strings.TrimSpace(f.Email)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(f.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if !f.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapInternal("failed to check email", err)
	}
	if _, err := users.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapInternal("failed to check username", err)
	}

	hashed, err := auth.HashPassword(f.Password)
	if err != nil {
		return nil, wrapInternal("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		FullName:     f.FullName,
		Role:         f.Role,
	}
	if err := users.Create(ctx, user); err != nil {
		// a concurrent insert won the race; the driver does not say which key
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountTaken
		}
		return nil, wrapInternal("failed to create user", err)
	}

	return user, nil
}

func findUser(ctx context.Context, users repository.UserRepository, id uint64) (*models.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapInternal("failed to find user", err)
	}
	return user, nil
}
