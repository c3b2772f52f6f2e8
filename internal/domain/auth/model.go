// Package auth provides user accounts, login and access tokens.
package auth

import (
	"context"
	"strings"
	"time"

	"essenceflow/internal/core/apperror"
	"essenceflow/internal/core/entity"
	"essenceflow/internal/core/id"
)

// UserID identifies a User.
type UserID = id.Of[User]

// Role is a coarse access level.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// User represents a system user.
type User struct {
	ID           UserID     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	entity.Versioned
	entity.Audit
}

// NewUser creates a new active user.
func NewUser(name, email, passwordHash string, role Role) *User {
	return &User{
		ID:           id.NewOf[User](),
		Name:         name,
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		Versioned:    entity.Versioned{Version: 1},
		Audit:        entity.NewAudit(),
	}
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates user data.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if strings.TrimSpace(u.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if !u.Role.Valid() {
		return apperror.NewValidation("unknown role").WithDetail("role", string(u.Role))
	}
	return nil
}

// CanLogin checks if user can login.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// RecordSuccessfulLogin stamps the last login time.
func (u *User) RecordSuccessfulLogin(now time.Time) {
	u.LastLoginAt = &now
}

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Email    string
	Password string
}

// CreateUserRequest creates an account with a plaintext password.
type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     Role
}
