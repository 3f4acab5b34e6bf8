package mocks

import (
	"context"

	"docsportal/internal/repository"
)

// MockStore hands out the embedded repository mocks. WithTx runs fn against the same
// store, so expectations set on the repositories cover transactional paths too.
type MockStore struct {
	UserRepo     *MockUserRepository
	SessionRepo  *MockSessionRepository
	DocumentRepo *MockDocumentRepository
	AccessRepo   *MockAccessRepository
	VersionRepo  *MockVersionRepository
}

// NewMockStore returns a store with fresh repository mocks.
func NewMockStore() *MockStore {
	return &MockStore{
		UserRepo:     new(MockUserRepository),
		SessionRepo:  new(MockSessionRepository),
		DocumentRepo: new(MockDocumentRepository),
		AccessRepo:   new(MockAccessRepository),
		VersionRepo:  new(MockVersionRepository),
	}
}

var _ repository.Store = (*MockStore)(nil)

func (m *MockStore) Users() repository.UserRepository         { return m.UserRepo }
func (m *MockStore) Sessions() repository.SessionRepository   { return m.SessionRepo }
func (m *MockStore) Documents() repository.DocumentRepository { return m.DocumentRepo }
func (m *MockStore) Accesses() repository.AccessRepository    { return m.AccessRepo }
func (m *MockStore) Versions() repository.VersionRepository   { return m.VersionRepo }

func (m *MockStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, m)
}
