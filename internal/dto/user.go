package dto

import (
	"time"

	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	FullName *string `json:"fullName" binding:"omitempty,max=100"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Username string           `json:"username" binding:"required,min=3,max=50"`
	Email    string           `json:"email" binding:"required,email"`
	Password string           `json:"password" binding:"omitempty,min=6"`
	FullName *string          `json:"fullName" binding:"omitempty,max=100"`
	Role     *models.UserRole `json:"role" binding:"omitempty,oneof=admin member pa"`
}

// ResetPasswordRequest is the body of PUT /api/users/:id/password
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FullName  *string         `json:"fullName"`
	Role      models.UserRole `json:"role"`
	AvatarURL *string         `json:"avatarUrl"`
	CreatedAt time.Time       `json:"createdAt"`
}

// UserSummaryDTO is the short form embedded in tasks, comments and history
type UserSummaryDTO struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	FullName *string `json:"fullName"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// CreatedUserResponse carries a generated password exactly once
type CreatedUserResponse struct {
	User              UserDTO `json:"user"`
	TemporaryPassword string  `json:"temporaryPassword,omitempty"`
}

// UserStatsResponse is returned by GET /api/users/stats
type UserStatsResponse struct {
	Total  int64                     `json:"total"`
	ByRole map[models.UserRole]int64 `json:"byRole"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

// ToUserSummary returns nil when the user was not loaded or no longer exists
func ToUserSummary(user *models.User) *UserSummaryDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &UserSummaryDTO{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}
}

func ToAuthResponse(result *services.AuthResult) AuthResponse {
	return AuthResponse{
		User:  ToUserDTO(*result.User),
		Token: result.Token,
	}
}

func ToUserStatsResponse(stats *services.UserStats) UserStatsResponse {
	return UserStatsResponse{
		Total:  stats.Total,
		ByRole: stats.ByRole,
	}
}
