package postgres

import (
	"context"
	"database/sql"

	"docsportal/internal/database"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

// VersionPostgres is a PostgreSQL implementation of repository.VersionRepository.
type VersionPostgres struct {
	db database.DBTX
}

// NewVersionPostgres creates a new VersionPostgres repository.
func NewVersionPostgres(db database.DBTX) *VersionPostgres {
	return &VersionPostgres{db: db}
}

var _ repository.VersionRepository = (*VersionPostgres)(nil)

const versionColumns = `id, document_id, version, file_path, file_size, change_log, is_active, created_by, created_at`

func scanVersion(row rowScanner) (*model.DocumentVersion, error) {
	var (
		v         model.DocumentVersion
		changeLog sql.NullString
	)
	if err := row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.Version,
		&v.FilePath,
		&v.FileSize,
		&changeLog,
		&v.IsActive,
		&v.CreatedBy,
		&v.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	v.ChangeLog = changeLog.String
	return &v, nil
}

func (r *VersionPostgres) Create(ctx context.Context, v *model.DocumentVersion) (*model.DocumentVersion, error) {
	const q = `
		INSERT INTO document_versions (id, document_id, version, file_path, file_size, change_log,
			is_active, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + versionColumns
	row := r.db.QueryRowContext(ctx, q,
		v.ID,
		v.DocumentID,
		v.Version,
		v.FilePath,
		v.FileSize,
		nullString(v.ChangeLog),
		v.IsActive,
		v.CreatedBy,
		v.CreatedAt,
	)
	return scanVersion(row)
}

// ListActiveByDocument returns active versions, newest first.
func (r *VersionPostgres) ListActiveByDocument(ctx context.Context, documentID string) ([]model.DocumentVersion, error) {
	const q = `SELECT ` + versionColumns + ` FROM document_versions
		WHERE document_id = $1 AND is_active ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DocumentVersion, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
