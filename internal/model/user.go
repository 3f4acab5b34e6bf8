package model

import (
	"errors"
	"strings"
	"time"
)

// Role is the account-wide role stored on a user.
type Role string

const (
	RoleUser    Role = "User"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
)

// ErrUnknownRole is returned when parsing a role outside the closed set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole accepts the canonical role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "manager":
		return RoleManager, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

// User is an account. PasswordHash never leaves the service layer.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Department     string     `json:"department,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	Role           Role       `json:"role"`
	IsActive       bool       `json:"isActive"`
	EmailConfirmed bool       `json:"emailConfirmed"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// RefreshSession is one device's refresh-token slot. Only the SHA-256 hash of the
// opaque token is persisted.
type RefreshSession struct {
	ID            string
	UserID        string
	TokenHash     string
	UserAgent     string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	LastRotatedAt time.Time
}
