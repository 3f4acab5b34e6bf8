package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"docsportal/internal/database"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

const documentColumns = `d.id, d.title, d.description, d.file_name, d.file_type, d.file_size, d.file_path,
		d.category, d.tags, d.is_public, d.is_active, d.created_by, d.created_at, d.updated_by, d.updated_at,
		(SELECT COUNT(*) FROM document_versions v WHERE v.document_id = d.id AND v.is_active) AS version_count,
		(SELECT v.version FROM document_versions v WHERE v.document_id = d.id AND v.is_active
			ORDER BY v.created_at DESC LIMIT 1) AS latest_version`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db database.DBTX
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db database.DBTX) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d                     model.Document
		desc, tags, updatedBy sql.NullString
		latest                sql.NullString
	)
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&desc,
		&d.FileName,
		&d.FileType,
		&d.FileSize,
		&d.FilePath,
		&d.Category,
		&tags,
		&d.IsPublic,
		&d.IsActive,
		&d.CreatedBy,
		&d.CreatedAt,
		&updatedBy,
		&d.UpdatedAt,
		&d.VersionCount,
		&latest,
	); err != nil {
		return nil, mapError(err)
	}
	d.Description = desc.String
	d.Tags = tags.String
	d.UpdatedBy = updatedBy.String
	d.LatestVersion = latest.String
	return &d, nil
}

// Create inserts a new document row. The returned record has no versions yet.
func (r *DocumentPostgres) Create(ctx context.Context, d *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, description, file_name, file_type, file_size, file_path,
			category, tags, is_public, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.ExecContext(ctx, q,
		d.ID,
		d.Title,
		nullString(d.Description),
		d.FileName,
		d.FileType,
		d.FileSize,
		d.FilePath,
		d.Category,
		nullString(d.Tags),
		d.IsPublic,
		d.IsActive,
		d.CreatedBy,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	out := *d
	out.VersionCount = 0
	out.LatestVersion = ""
	return &out, nil
}

// FindActiveByID fetches an active document with its version projections.
func (r *DocumentPostgres) FindActiveByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents d WHERE d.id = $1 AND d.is_active`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// ListVisible returns active documents readable by f.UserID, most recently updated first.
func (r *DocumentPostgres) ListVisible(ctx context.Context, f repository.DocumentFilter) ([]model.Document, error) {
	q, args := buildListQuery(f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func buildListQuery(f repository.DocumentFilter) (string, []any) {
	var (
		where = []string{"d.is_active"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.UserID == "" {
		where = append(where, "d.is_public")
	} else {
		p := arg(f.UserID)
		where = append(where, fmt.Sprintf(`(d.is_public OR d.created_by = %[1]s OR EXISTS (
			SELECT 1 FROM document_accesses a WHERE a.document_id = d.id AND a.user_id = %[1]s))`, p))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, fmt.Sprintf("LOWER(d.category) = LOWER(%s)", arg(c)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + escapeLike(s) + "%")
		where = append(where, fmt.Sprintf(
			"(d.title ILIKE %[1]s OR COALESCE(d.description, '') ILIKE %[1]s OR COALESCE(d.tags, '') ILIKE %[1]s)", p))
	}

	q := `SELECT ` + documentColumns + ` FROM documents d WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY d.updated_at DESC, d.id DESC`
	if f.Limit > 0 {
		q += " LIMIT " + arg(f.Limit)
	}
	return q, args
}

// escapeLike makes user input match literally inside ILIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *DocumentPostgres) Categories(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT category FROM documents WHERE is_active ORDER BY category`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update writes the editable fields of an active document.
func (r *DocumentPostgres) Update(ctx context.Context, d *model.Document) error {
	const q = `
		UPDATE documents
		SET title = $2, description = $3, category = $4, tags = $5, is_public = $6,
			updated_by = $7, updated_at = $8
		WHERE id = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, q,
		d.ID,
		d.Title,
		nullString(d.Description),
		d.Category,
		nullString(d.Tags),
		d.IsPublic,
		nullString(d.UpdatedBy),
		d.UpdatedAt,
	)
	return affectedOne(res, err)
}

// SoftDelete marks the document inactive; a second call reports ErrNotFound.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id, by string, at time.Time) error {
	const q = `
		UPDATE documents
		SET is_active = FALSE, updated_by = $2, updated_at = $3
		WHERE id = $1 AND is_active
	`
	res, err := r.db.ExecContext(ctx, q, id, nullString(by), at)
	return affectedOne(res, err)
}
