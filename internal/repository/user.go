package repository

import (
	"context"
	"time"

	"docsportal/internal/model"
)

// UserRepository persists accounts. Lookups named Active ignore disabled users.
type UserRepository interface {
	// Create inserts u and returns the stored row. Duplicate email or username yields ErrDuplicate.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	FindActiveByID(ctx context.Context, id string) (*model.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.User, error)

	// ExistsByEmail also counts disabled accounts.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// UpdateProfile writes the editable profile fields of an active user.
	UpdateProfile(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// SessionRepository stores refresh sessions keyed by token hash.
type SessionRepository interface {
	Create(ctx context.Context, s *model.RefreshSession) error

	// Rotate swaps oldHash for newHash when the session is unexpired at now and its user is
	// active, returning the owning user id. A miss returns ErrNotFound.
	Rotate(ctx context.Context, oldHash, newHash string, expiresAt, now time.Time) (string, error)

	// Delete removes the session of userID identified by hash. Missing rows are not an error.
	Delete(ctx context.Context, userID, hash string) error
}
