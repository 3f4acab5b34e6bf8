package service

import "errors"

var (
	// ErrValidation wraps request validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials covers unknown email, wrong password and disabled accounts alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned for unknown, expired or already rotated refresh tokens.
	ErrInvalidToken = errors.New("invalid or expired refresh token")
	ErrUserExists   = errors.New("user with this email or username already exists")
	// ErrIncorrectPassword is returned by ChangePassword when the current password is wrong.
	ErrIncorrectPassword = errors.New("current password is incorrect")

	// ErrNotFound hides whether a document is missing or just not readable by the caller.
	ErrNotFound = errors.New("document not found")
	// ErrAccessDenied is returned by management operations the caller lacks rights for.
	ErrAccessDenied  = errors.New("access denied")
	ErrUserNotFound  = errors.New("user not found")
	ErrVersionExists = errors.New("version already exists")
)
