package repository

import (
	"context"
	"errors"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.

var (
	// ErrNotFound is returned when a lookup or conditional write matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("record already exists")
	// ErrReferenceMissing is returned when a foreign key points nowhere.
	ErrReferenceMissing = errors.New("referenced record does not exist")
)

// Store vends repositories bound to one database handle. Repositories obtained from the
// Store passed to WithTx's callback share a single transaction.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Documents() DocumentRepository
	Accesses() AccessRepository
	Versions() VersionRepository

	// WithTx runs fn inside a transaction; fn's error rolls it back.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
