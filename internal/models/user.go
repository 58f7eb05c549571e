package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents a user's role in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOperator UserRole = "operator"
)

// User represents a registered user
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRoleRequest represents the request to change a user's role
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Validate validates the UpdateUserRoleRequest
func (req *UpdateUserRoleRequest) Validate() error {
	switch UserRole(req.Role) {
	case RoleCustomer, RoleOperator:
		return nil
	default:
		return errors.New("role must be customer or operator")
	}
}

// RefreshRequest represents the request to refresh an access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenPair is the response carrying freshly issued tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Validate validates the RegisterRequest
func (req *RegisterRequest) Validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name must not be empty")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// IsOperator checks whether the user has the operator role
func (u *User) IsOperator() bool {
	return u.Role == RoleOperator
}
