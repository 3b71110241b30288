package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRole string

const (
	UserRoleAdmin        UserRole = "admin"
	UserRoleDentist      UserRole = "dentist"
	UserRoleReceptionist UserRole = "receptionist"
)

type User struct {
	Base
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         UserRole       `db:"role" json:"role"`
	Permissions  pq.StringArray `db:"permissions" json:"permissions"`
	Active       bool           `db:"active" json:"active"`
	LastLoginAt  *time.Time     `db:"last_login_at" json:"last_login_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=8"`
	Role     UserRole `json:"role" binding:"required,oneof=admin dentist receptionist"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenClaims struct {
	UserID      uuid.UUID
	Email       string
	Role        UserRole
	Permissions []string
}
