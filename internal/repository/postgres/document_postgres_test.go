package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsportal/internal/model"
	"docsportal/internal/repository"
)

var documentCols = []string{
	"id", "title", "description", "file_name", "file_type", "file_size", "file_path",
	"category", "tags", "is_public", "is_active", "created_by", "created_at", "updated_by", "updated_at",
	"version_count", "latest_version",
}

func documentRow(rows *sqlmock.Rows, id, title string, public bool, latest any) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, title, nil, "a.pdf", "application/pdf", int64(10), "/documents/x_a.pdf",
		"HR", "policy,leave", public, true, "owner-1", now, nil, now, 2, latest)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:        "doc-1",
		Title:     "Leave policy",
		FileName:  "a.pdf",
		FileType:  "application/pdf",
		FileSize:  123,
		FilePath:  "/documents/doc-1_a.pdf",
		Category:  "HR",
		IsActive:  true,
		CreatedBy: "owner-1",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, sql.NullString{}, doc.FileName, doc.FileType, doc.FileSize, doc.FilePath,
			doc.Category, sql.NullString{}, false, true, doc.CreatedBy, now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Zero(t, result.VersionCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindActiveByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := documentRow(sqlmock.NewRows(documentCols), "doc-1", "Leave policy", true, "1.1")

		mock.ExpectQuery("SELECT (.+) FROM documents d WHERE d.id = \\$1 AND d.is_active").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindActiveByID(ctx, "doc-1")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "doc-1", doc.ID)
		assert.Equal(t, 2, doc.VersionCount)
		assert.Equal(t, "1.1", doc.LatestVersion)
		assert.Empty(t, doc.Description)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents d WHERE d.id = \\$1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindActiveByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListVisible(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("anonymous sees public only", func(t *testing.T) {
		rows := documentRow(sqlmock.NewRows(documentCols), "doc-1", "Public", true, nil)

		mock.ExpectQuery("WHERE d.is_active AND d.is_public ORDER BY d.updated_at DESC").
			WithArgs(5).
			WillReturnRows(rows)

		res, err := repo.ListVisible(ctx, repository.DocumentFilter{Limit: 5})

		assert.NoError(t, err)
		require.Len(t, res, 1)
		assert.Empty(t, res[0].LatestVersion)
	})

	t.Run("user with category and search", func(t *testing.T) {
		rows := documentRow(sqlmock.NewRows(documentCols), "doc-2", "Private", false, "2.0")

		mock.ExpectQuery("d.created_by = \\$1 (.+) LOWER\\(d.category\\) = LOWER\\(\\$2\\) (.+) ILIKE \\$3").
			WithArgs("user-1", "hr", "%50\\%%").
			WillReturnRows(rows)

		res, err := repo.ListVisible(ctx, repository.DocumentFilter{UserID: "user-1", Category: "hr", Search: "50%"})

		assert.NoError(t, err)
		assert.Len(t, res, 1)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents d").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(documentCols))

		res, err := repo.ListVisible(ctx, repository.DocumentFilter{UserID: "user-1"})

		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildListQuery(t *testing.T) {
	q, args := buildListQuery(repository.DocumentFilter{})
	assert.Contains(t, q, "d.is_public")
	assert.NotContains(t, q, "LIMIT")
	assert.Empty(t, args)

	q, args = buildListQuery(repository.DocumentFilter{UserID: "u", Limit: 3})
	assert.Contains(t, q, "EXISTS")
	assert.Contains(t, q, "LIMIT $2")
	assert.Equal(t, []any{"u", 3}, args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestDocumentPostgres_Categories(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("SELECT DISTINCT category FROM documents WHERE is_active").
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Finance").AddRow("HR"))

	res, err := repo.Categories(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []string{"Finance", "HR"}, res)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", Title: "New", Category: "HR", UpdatedBy: "u", UpdatedAt: time.Now()}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, doc))
	})

	t.Run("inactive or missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(ctx, doc), repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents\\s+SET is_active = FALSE").
			WithArgs("doc-1", sql.NullString{String: "u", Valid: true}, now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SoftDelete(ctx, "doc-1", "u", now)
		assert.NoError(t, err)
	})

	t.Run("already deleted", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents\\s+SET is_active = FALSE").
			WithArgs("doc-1", sql.NullString{String: "u", Valid: true}, now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete(ctx, "doc-1", "u", now)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
