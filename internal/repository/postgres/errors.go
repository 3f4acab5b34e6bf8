package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"docsportal/internal/repository"
)

// IsNoRowsError checks if err is a "no rows" error from database/sql.
func IsNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsDuplicateError checks if err is a unique constraint violation.
func IsDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsForeignKeyError checks if err is a foreign key violation.
func IsForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503"
	}
	return false
}

// mapError translates driver errors into repository sentinels; anything else passes through.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case IsNoRowsError(err):
		return repository.ErrNotFound
	case IsDuplicateError(err):
		return repository.ErrDuplicate
	case IsForeignKeyError(err):
		return repository.ErrReferenceMissing
	default:
		return err
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
