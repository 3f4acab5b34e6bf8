package postgres

import (
	"context"
	"database/sql"

	"docsportal/internal/database"
	"docsportal/internal/repository"
)

// Store is the PostgreSQL repository.Store. A Store created by WithTx is bound to the
// transaction and runs nested WithTx calls inline.
type Store struct {
	db *sql.DB
	q  database.DBTX
}

// NewStore creates a Store over a connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Users() repository.UserRepository         { return NewUserPostgres(s.q) }
func (s *Store) Sessions() repository.SessionRepository   { return NewSessionPostgres(s.q) }
func (s *Store) Documents() repository.DocumentRepository { return NewDocumentPostgres(s.q) }
func (s *Store) Accesses() repository.AccessRepository    { return NewAccessPostgres(s.q) }
func (s *Store) Versions() repository.VersionRepository   { return NewVersionPostgres(s.q) }

// WithTx runs fn in a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, &Store{q: tx})
	})
}
