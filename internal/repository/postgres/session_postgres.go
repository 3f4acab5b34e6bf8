package postgres

import (
	"context"
	"time"

	"docsportal/internal/database"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

// SessionPostgres is a PostgreSQL implementation of repository.SessionRepository.
type SessionPostgres struct {
	db database.DBTX
}

// NewSessionPostgres creates a new SessionPostgres repository.
func NewSessionPostgres(db database.DBTX) *SessionPostgres {
	return &SessionPostgres{db: db}
}

var _ repository.SessionRepository = (*SessionPostgres)(nil)

func (r *SessionPostgres) Create(ctx context.Context, s *model.RefreshSession) error {
	const q = `
		INSERT INTO refresh_sessions (id, user_id, token_hash, user_agent, expires_at, created_at, last_rotated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, q,
		s.ID,
		s.UserID,
		s.TokenHash,
		s.UserAgent,
		s.ExpiresAt,
		s.CreatedAt,
		s.LastRotatedAt,
	)
	return mapError(err)
}

// Rotate is a single conditional UPDATE, so two concurrent rotations of the same token
// cannot both succeed.
func (r *SessionPostgres) Rotate(ctx context.Context, oldHash, newHash string, expiresAt, now time.Time) (string, error) {
	const q = `
		UPDATE refresh_sessions s
		SET token_hash = $2, expires_at = $3, last_rotated_at = $4
		FROM users u
		WHERE s.token_hash = $1
		  AND s.expires_at > $4
		  AND u.id = s.user_id
		  AND u.is_active
		RETURNING s.user_id
	`
	var userID string
	if err := r.db.QueryRowContext(ctx, q, oldHash, newHash, expiresAt, now).Scan(&userID); err != nil {
		return "", mapError(err)
	}
	return userID, nil
}

func (r *SessionPostgres) Delete(ctx context.Context, userID, hash string) error {
	const q = `DELETE FROM refresh_sessions WHERE user_id = $1 AND token_hash = $2`
	_, err := r.db.ExecContext(ctx, q, userID, hash)
	return mapError(err)
}
