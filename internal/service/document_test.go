package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docsportal/internal/model"
	"docsportal/internal/repository"
	repoMocks "docsportal/internal/repository/mocks"
	"docsportal/internal/storage"
)

const (
	docID   = "6f1c2a3b-0000-4000-8000-000000000001"
	ownerID = "6f1c2a3b-0000-4000-8000-0000000000aa"
	bobID   = "6f1c2a3b-0000-4000-8000-0000000000bb"
)

func newTestDocumentService() (*documentService, *repoMocks.MockStore) {
	store := repoMocks.NewMockStore()
	svc := NewDocumentService(store, storage.NewPaths(), zap.NewNop()).(*documentService)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func privateDoc() *model.Document {
	return &model.Document{ID: docID, Title: "Plan", FileName: "plan.pdf", CreatedBy: ownerID, IsActive: true}
}

func grantFor(level model.AccessLevel) *model.DocumentAccess {
	return &model.DocumentAccess{DocumentID: docID, UserID: bobID, AccessType: level}
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		setupMocks func(store *repoMocks.MockStore)
		wantErr    error
	}{
		{
			name:   "public document for anyone",
			userID: "",
			setupMocks: func(store *repoMocks.MockStore) {
				d := privateDoc()
				d.IsPublic = true
				store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(d, nil)
			},
		},
		{
			name:   "owner",
			userID: ownerID,
			setupMocks: func(store *repoMocks.MockStore) {
				store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
			},
		},
		{
			name:   "private without grant looks missing",
			userID: bobID,
			setupMocks: func(store *repoMocks.MockStore) {
				store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
				store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "inactive or missing",
			userID: ownerID,
			setupMocks: func(store *repoMocks.MockStore) {
				store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "database failure",
			userID: ownerID,
			setupMocks: func(store *repoMocks.MockStore) {
				store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(nil, errors.New("db down"))
			},
			wantErr: errors.New("db down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestDocumentService()
			tt.setupMocks(store)

			doc, err := svc.Get(ctx, docID, tt.userID)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Nil(t, doc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, docID, doc.ID)
			store.DocumentRepo.AssertExpectations(t)
			store.AccessRepo.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Get_MalformedID(t *testing.T) {
	svc, store := newTestDocumentService()

	_, err := svc.Get(context.Background(), "not-a-uuid", ownerID)

	assert.ErrorIs(t, err, ErrNotFound)
	store.DocumentRepo.AssertNotCalled(t, "FindActiveByID", mock.Anything, mock.Anything)
}

func TestDocumentService_HasAccess_CreatorHoldsEveryLevel(t *testing.T) {
	svc, store := newTestDocumentService()
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)

	for _, level := range []model.AccessLevel{model.AccessRead, model.AccessWrite, model.AccessAdmin} {
		ok, err := svc.HasAccess(context.Background(), docID, ownerID, level)
		require.NoError(t, err)
		assert.True(t, ok, level.String())
	}
	store.AccessRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentService_GrantThenRevoke(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()

	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
	store.UserRepo.On("FindActiveByID", mock.Anything, bobID).Return(&model.User{ID: bobID}, nil)
	store.AccessRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *model.DocumentAccess) bool {
		return a.UserID == bobID && a.AccessType == model.AccessWrite && a.GrantedBy == ownerID
	})).Return(grantFor(model.AccessWrite), nil)
	store.AccessRepo.On("Delete", mock.Anything, docID, bobID).Return(nil)

	// Row present between grant and revoke, gone afterwards.
	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessWrite), nil).Once()
	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(nil, repository.ErrNotFound)

	_, err := svc.GrantAccess(ctx, docID, ownerID, GrantAccessRequest{UserID: bobID, AccessType: model.AccessWrite})
	require.NoError(t, err)

	ok, err := svc.HasAccess(ctx, docID, bobID, model.AccessWrite)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.RevokeAccess(ctx, docID, ownerID, bobID))

	ok, err = svc.HasAccess(ctx, docID, bobID, model.AccessWrite)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDocumentService_SharedReadScenario(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()
	doc := privateDoc()

	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(doc, nil)
	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Get(ctx, docID, bobID)
	assert.ErrorIs(t, err, ErrNotFound)

	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessRead), nil)

	got, err := svc.Get(ctx, docID, bobID)
	require.NoError(t, err)
	assert.Equal(t, docID, got.ID)

	_, err = svc.Update(ctx, docID, bobID, UpdateDocumentRequest{Title: "Hijack", Category: "HR"})
	assert.ErrorIs(t, err, ErrNotFound)
	store.DocumentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDocumentService_List(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()

	store.DocumentRepo.On("ListVisible", mock.Anything, repository.DocumentFilter{UserID: bobID, Category: "HR", Search: "policy"}).
		Return([]model.Document{{ID: docID}}, nil)
	store.DocumentRepo.On("ListVisible", mock.Anything, repository.DocumentFilter{}).
		Return([]model.Document{}, nil)

	res, err := svc.List(ctx, bobID, ListOptions{Category: "HR", Search: "policy"})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = svc.ListPublic(ctx)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDocumentService_ListRecent(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{count: 0, want: 10},
		{count: -3, want: 10},
		{count: 5, want: 5},
		{count: 100, want: 100},
		{count: 500, want: 100},
	}

	for _, tt := range tests {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("ListVisible", mock.Anything, repository.DocumentFilter{UserID: bobID, Limit: tt.want}).
			Return([]model.Document{}, nil)

		_, err := svc.ListRecent(context.Background(), bobID, tt.count)
		assert.NoError(t, err)
		store.DocumentRepo.AssertExpectations(t)
	}
}

func TestDocumentService_Create(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()

	req := CreateDocumentRequest{
		Title:    " Handbook ",
		FileName: "handbook.pdf",
		FileType: "application/pdf",
		FileSize: 2048,
		Category: "HR",
		Tags:     "onboarding",
	}

	store.DocumentRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.Title == "Handbook" &&
			d.CreatedBy == ownerID &&
			d.IsActive &&
			d.CreatedAt.Equal(fixedNow) &&
			strings.HasPrefix(d.FilePath, "/documents/") &&
			strings.HasSuffix(d.FilePath, "_handbook.pdf")
	})).Return(&model.Document{ID: docID, CreatedBy: ownerID}, nil)

	doc, err := svc.Create(ctx, ownerID, req)

	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	store.AccessRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	req.Title = ""
	_, err = svc.Create(ctx, ownerID, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDocumentService_Update(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()

	updated := privateDoc()
	updated.Title = "New"
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil).Once()
	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessWrite), nil)
	store.DocumentRepo.On("Update", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
		return d.Title == "New" && d.UpdatedBy == bobID && d.UpdatedAt.Equal(fixedNow) && d.IsPublic
	})).Return(nil)
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(updated, nil).Once()

	doc, err := svc.Update(ctx, docID, bobID, UpdateDocumentRequest{Title: "New", Category: "HR", IsPublic: true})

	require.NoError(t, err)
	assert.Equal(t, "New", doc.Title)
	store.DocumentRepo.AssertExpectations(t)
}

func TestDocumentService_Delete(t *testing.T) {
	t.Run("write grant is not enough", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessWrite), nil)

		err := svc.Delete(context.Background(), docID, bobID)

		assert.ErrorIs(t, err, ErrNotFound)
		store.DocumentRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("owner soft deletes", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.DocumentRepo.On("SoftDelete", mock.Anything, docID, ownerID, fixedNow).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), docID, ownerID))
		store.DocumentRepo.AssertExpectations(t)
	})
}

func TestDocumentService_GrantAccess_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("caller without admin", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessWrite), nil)

		_, err := svc.GrantAccess(ctx, docID, bobID, GrantAccessRequest{UserID: ownerID, AccessType: model.AccessRead})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown target user", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.UserRepo.On("FindActiveByID", mock.Anything, bobID).Return(nil, repository.ErrNotFound)

		_, err := svc.GrantAccess(ctx, docID, ownerID, GrantAccessRequest{UserID: bobID, AccessType: model.AccessRead})
		assert.ErrorIs(t, err, ErrUserNotFound)
		store.AccessRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("invalid level", func(t *testing.T) {
		svc, _ := newTestDocumentService()
		_, err := svc.GrantAccess(ctx, docID, ownerID, GrantAccessRequest{UserID: bobID})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDocumentService_RevokeAccess_MissingRow(t *testing.T) {
	svc, store := newTestDocumentService()
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
	store.AccessRepo.On("Delete", mock.Anything, docID, bobID).Return(repository.ErrNotFound)

	err := svc.RevokeAccess(context.Background(), docID, ownerID, bobID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentService_ListAccess(t *testing.T) {
	svc, store := newTestDocumentService()
	ctx := context.Background()
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
	store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessRead), nil)
	store.AccessRepo.On("ListByDocument", mock.Anything, docID).Return([]model.DocumentAccess{*grantFor(model.AccessRead)}, nil)

	_, err := svc.ListAccess(ctx, docID, bobID)
	assert.ErrorIs(t, err, ErrNotFound)

	res, err := svc.ListAccess(ctx, docID, ownerID)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestDocumentService_CreateVersion(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults file name", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.VersionRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *model.DocumentVersion) bool {
			return v.Version == "1.1" &&
				strings.HasPrefix(v.FilePath, "/documents/versions/") &&
				strings.HasSuffix(v.FilePath, "_plan.pdf") &&
				v.CreatedBy == ownerID
		})).Return(&model.DocumentVersion{ID: "v-1", Version: "1.1"}, nil)

		v, err := svc.CreateVersion(ctx, docID, ownerID, CreateVersionRequest{Version: " 1.1 ", FileSize: 10})

		require.NoError(t, err)
		assert.Equal(t, "1.1", v.Version)
	})

	t.Run("duplicate label", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.VersionRepo.On("Create", mock.Anything, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := svc.CreateVersion(ctx, docID, ownerID, CreateVersionRequest{Version: "1.1"})
		assert.ErrorIs(t, err, ErrVersionExists)
	})

	t.Run("read grant cannot add versions", func(t *testing.T) {
		svc, store := newTestDocumentService()
		store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(privateDoc(), nil)
		store.AccessRepo.On("Find", mock.Anything, docID, bobID).Return(grantFor(model.AccessRead), nil)

		_, err := svc.CreateVersion(ctx, docID, bobID, CreateVersionRequest{Version: "2.0"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestDocumentService_ListVersions(t *testing.T) {
	svc, store := newTestDocumentService()
	d := privateDoc()
	d.IsPublic = true
	store.DocumentRepo.On("FindActiveByID", mock.Anything, docID).Return(d, nil)
	store.VersionRepo.On("ListActiveByDocument", mock.Anything, docID).
		Return([]model.DocumentVersion{{Version: "1.2"}, {Version: "1.1"}}, nil)

	res, err := svc.ListVersions(context.Background(), docID, "")

	require.NoError(t, err)
	assert.Len(t, res, 2)
}
