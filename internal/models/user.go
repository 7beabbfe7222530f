package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
	RolePA     UserRole = "pa"
)

// UserRoles lists every role in display order.
var UserRoles = []UserRole{RoleAdmin, RoleMember, RolePA}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RolePA:
		return true
	}
	return false
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     *string   `gorm:"type:varchar(100)" json:"fullName"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'member';index" json:"role"`
	AvatarURL    *string   `gorm:"type:varchar(500)" json:"avatarUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
