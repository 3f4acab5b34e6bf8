package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docsportal/internal/model"
	"docsportal/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

var _ service.DocumentService = (*MockDocumentService)(nil)

func (m *MockDocumentService) List(ctx context.Context, userID string, opts service.ListOptions) ([]model.Document, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) ListPublic(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) ListRecent(ctx context.Context, userID string, count int) ([]model.Document, error) {
	args := m.Called(ctx, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id, userID string) (*model.Document, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Create(ctx context.Context, userID string, req service.CreateDocumentRequest) (*model.Document, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, id, userID string, req service.UpdateDocumentRequest) (*model.Document, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockDocumentService) HasAccess(ctx context.Context, id, userID string, level model.AccessLevel) (bool, error) {
	args := m.Called(ctx, id, userID, level)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentService) GrantAccess(ctx context.Context, id, actorID string, req service.GrantAccessRequest) (*model.DocumentAccess, error) {
	args := m.Called(ctx, id, actorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentAccess), args.Error(1)
}

func (m *MockDocumentService) RevokeAccess(ctx context.Context, id, actorID, targetUserID string) error {
	args := m.Called(ctx, id, actorID, targetUserID)
	return args.Error(0)
}

func (m *MockDocumentService) ListAccess(ctx context.Context, id, actorID string) ([]model.DocumentAccess, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentAccess), args.Error(1)
}

func (m *MockDocumentService) CreateVersion(ctx context.Context, id, userID string, req service.CreateVersionRequest) (*model.DocumentVersion, error) {
	args := m.Called(ctx, id, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentVersion), args.Error(1)
}

func (m *MockDocumentService) ListVersions(ctx context.Context, id, userID string) ([]model.DocumentVersion, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentVersion), args.Error(1)
}
