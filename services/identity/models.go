package identity

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Identity is passed explicitly into every service operation. There is no
// ambient "current user" anywhere in this codebase.
type Identity struct {
	UserID      string
	FullName    string
	CollegeName string
	Role        Role
}

func (i Identity) IsZero() bool {
	return i.UserID == ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

type UserProfile struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	FullName    string    `json:"full_name" gorm:"size:255"`
	CollegeName string    `json:"college_name" gorm:"size:255;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "profiles"
}

type UserRole struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;size:36;not null"`
	Role      string    `json:"role" gorm:"size:16;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
