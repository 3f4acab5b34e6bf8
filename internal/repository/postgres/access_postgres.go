package postgres

import (
	"context"
	"database/sql"

	"docsportal/internal/database"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

// AccessPostgres is a PostgreSQL implementation of repository.AccessRepository.
type AccessPostgres struct {
	db database.DBTX
}

// NewAccessPostgres creates a new AccessPostgres repository.
func NewAccessPostgres(db database.DBTX) *AccessPostgres {
	return &AccessPostgres{db: db}
}

var _ repository.AccessRepository = (*AccessPostgres)(nil)

const accessColumns = `id, document_id, user_id, access_type, granted_by, granted_at`

func scanAccess(row rowScanner) (*model.DocumentAccess, error) {
	var (
		a         model.DocumentAccess
		level     string
		grantedBy sql.NullString
	)
	if err := row.Scan(&a.ID, &a.DocumentID, &a.UserID, &level, &grantedBy, &a.GrantedAt); err != nil {
		return nil, mapError(err)
	}
	parsed, err := model.ParseAccessLevel(level)
	if err != nil {
		return nil, err
	}
	a.AccessType = parsed
	a.GrantedBy = grantedBy.String
	return &a, nil
}

func (r *AccessPostgres) Find(ctx context.Context, documentID, userID string) (*model.DocumentAccess, error) {
	const q = `SELECT ` + accessColumns + ` FROM document_accesses WHERE document_id = $1 AND user_id = $2`
	return scanAccess(r.db.QueryRowContext(ctx, q, documentID, userID))
}

// Upsert keeps one row per (document, user); a repeated grant replaces level and grantor.
func (r *AccessPostgres) Upsert(ctx context.Context, a *model.DocumentAccess) (*model.DocumentAccess, error) {
	const q = `
		INSERT INTO document_accesses (id, document_id, user_id, access_type, granted_by, granted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (document_id, user_id) DO UPDATE
		SET access_type = EXCLUDED.access_type,
			granted_by = EXCLUDED.granted_by,
			granted_at = EXCLUDED.granted_at
		RETURNING ` + accessColumns
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.DocumentID,
		a.UserID,
		a.AccessType.String(),
		nullString(a.GrantedBy),
		a.GrantedAt,
	)
	return scanAccess(row)
}

func (r *AccessPostgres) Delete(ctx context.Context, documentID, userID string) error {
	const q = `DELETE FROM document_accesses WHERE document_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, documentID, userID)
	return affectedOne(res, err)
}

func (r *AccessPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentAccess, error) {
	const q = `SELECT ` + accessColumns + ` FROM document_accesses WHERE document_id = $1 ORDER BY granted_at, id`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DocumentAccess, 0)
	for rows.Next() {
		a, err := scanAccess(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
