package repository

import (
	"context"
	"time"

	"docsportal/internal/model"
)

// DocumentFilter narrows ListVisible.
//
// An empty UserID restricts results to public documents. Category is matched
// case-insensitively; Search is a case-insensitive substring over title, description and
// tags. Limit <= 0 means no limit.
type DocumentFilter struct {
	UserID   string
	Category string
	Search   string
	Limit    int
}

// DocumentRepository defines data access for documents using SQL queries only.
// Every read path excludes inactive documents.
type DocumentRepository interface {
	Create(ctx context.Context, d *model.Document) (*model.Document, error)
	FindActiveByID(ctx context.Context, id string) (*model.Document, error)

	// ListVisible returns active documents the filter's user may read, newest update first.
	ListVisible(ctx context.Context, f DocumentFilter) ([]model.Document, error)

	// Categories returns distinct categories of active documents, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Update writes title, description, category, tags, public flag and audit fields.
	Update(ctx context.Context, d *model.Document) error

	SoftDelete(ctx context.Context, id, by string, at time.Time) error
}

// AccessRepository manages explicit ACL rows.
type AccessRepository interface {
	Find(ctx context.Context, documentID, userID string) (*model.DocumentAccess, error)

	// Upsert inserts or overwrites the row for (DocumentID, UserID).
	Upsert(ctx context.Context, a *model.DocumentAccess) (*model.DocumentAccess, error)

	// Delete returns ErrNotFound when no row existed.
	Delete(ctx context.Context, documentID, userID string) error

	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentAccess, error)
}

// VersionRepository appends document versions.
type VersionRepository interface {
	// Create returns ErrDuplicate when the label already exists for the document.
	Create(ctx context.Context, v *model.DocumentVersion) (*model.DocumentVersion, error)
	ListActiveByDocument(ctx context.Context, documentID string) ([]model.DocumentVersion, error)
}
