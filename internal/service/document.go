package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"docsportal/internal/auth"
	"docsportal/internal/model"
	"docsportal/internal/repository"
)

const (
	defaultRecentCount = 10
	maxRecentCount     = 100
)

// ListOptions filters List. Empty fields do not filter.
type ListOptions struct {
	Category string
	Search   string
}

// CreateDocumentRequest carries the metadata of a new document.
type CreateDocumentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileSize    int64  `json:"fileSize"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	IsPublic    bool   `json:"isPublic"`
}

func (r CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.FileName, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.FileType, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.FileSize, validation.Min(int64(0))),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Tags, validation.Length(0, 500)),
	)
}

// UpdateDocumentRequest replaces the editable metadata of a document.
type UpdateDocumentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	IsPublic    bool   `json:"isPublic"`
}

func (r UpdateDocumentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.Category, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Tags, validation.Length(0, 500)),
	)
}

// GrantAccessRequest gives UserID the AccessType level on a document.
type GrantAccessRequest struct {
	UserID     string            `json:"userId"`
	AccessType model.AccessLevel `json:"accessType"`
}

func (r GrantAccessRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required, validation.By(isUUID)),
		validation.Field(&r.AccessType, validation.By(func(any) error {
			if !r.AccessType.Valid() {
				return model.ErrUnknownAccessLevel
			}
			return nil
		})),
	)
}

// CreateVersionRequest appends a labelled version. FileName defaults to the document's.
type CreateVersionRequest struct {
	Version   string `json:"version"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	ChangeLog string `json:"changeLog"`
}

func (r CreateVersionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Version, validation.Required, validation.Length(1, 20)),
		validation.Field(&r.FileName, validation.Length(0, 100)),
		validation.Field(&r.FileSize, validation.Min(int64(0))),
		validation.Field(&r.ChangeLog, validation.Length(0, 500)),
	)
}

func isUUID(v any) error {
	s, _ := v.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

// PathGenerator names the synthetic files behind documents and versions.
type PathGenerator interface {
	DocumentPath(fileName string) string
	VersionPath(fileName string) string
}

// DocumentService defines the use cases for handling documents. An empty userID means an
// anonymous caller.
type DocumentService interface {
	// List returns active documents the user may read, most recently updated first.
	List(ctx context.Context, userID string, opts ListOptions) ([]model.Document, error)
	ListPublic(ctx context.Context) ([]model.Document, error)

	// ListRecent is List without filters, capped at count (default 10, at most 100).
	ListRecent(ctx context.Context, userID string, count int) ([]model.Document, error)
	Categories(ctx context.Context) ([]string, error)

	// Get returns ErrNotFound both for missing documents and ones the user cannot read.
	Get(ctx context.Context, id, userID string) (*model.Document, error)
	Create(ctx context.Context, userID string, req CreateDocumentRequest) (*model.Document, error)
	Update(ctx context.Context, id, userID string, req UpdateDocumentRequest) (*model.Document, error)
	Delete(ctx context.Context, id, userID string) error

	// HasAccess evaluates the user's rights on the document at the requested level.
	HasAccess(ctx context.Context, id, userID string, level model.AccessLevel) (bool, error)

	GrantAccess(ctx context.Context, id, actorID string, req GrantAccessRequest) (*model.DocumentAccess, error)
	RevokeAccess(ctx context.Context, id, actorID, targetUserID string) error
	ListAccess(ctx context.Context, id, actorID string) ([]model.DocumentAccess, error)

	CreateVersion(ctx context.Context, id, userID string, req CreateVersionRequest) (*model.DocumentVersion, error)
	ListVersions(ctx context.Context, id, userID string) ([]model.DocumentVersion, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store repository.Store
	paths PathGenerator
	log   *zap.Logger
	now   func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store repository.Store, paths PathGenerator, log *zap.Logger) DocumentService {
	return &documentService{store: store, paths: paths, log: log, now: time.Now}
}

// authorize loads the active document and decides the request. A missing document is
// reported as (nil, false, nil).
func (s *documentService) authorize(ctx context.Context, store repository.Store, id, userID string, level model.AccessLevel) (*model.Document, bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false, nil
	}

	doc, err := store.Documents().FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var grant *model.DocumentAccess
	if userID != "" && doc.CreatedBy != userID && !(doc.IsPublic && level == model.AccessRead) {
		grant, err = store.Accesses().Find(ctx, id, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, false, err
		}
	}
	return doc, auth.HasAccess(doc, userID, level, grant), nil
}

// require is authorize with missing and denied folded into denied.
func (s *documentService) require(ctx context.Context, store repository.Store, id, userID string, level model.AccessLevel, denied error) (*model.Document, error) {
	doc, ok, err := s.authorize(ctx, store, id, userID, level)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, denied
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, userID string, opts ListOptions) ([]model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.List")
	defer span.End()

	return s.store.Documents().ListVisible(ctx, repository.DocumentFilter{
		UserID:   userID,
		Category: opts.Category,
		Search:   opts.Search,
	})
}

func (s *documentService) ListPublic(ctx context.Context) ([]model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.ListPublic")
	defer span.End()

	return s.store.Documents().ListVisible(ctx, repository.DocumentFilter{})
}

func (s *documentService) ListRecent(ctx context.Context, userID string, count int) ([]model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.ListRecent")
	defer span.End()

	return s.store.Documents().ListVisible(ctx, repository.DocumentFilter{
		UserID: userID,
		Limit:  clampCount(count),
	})
}

func clampCount(count int) int {
	switch {
	case count <= 0:
		return defaultRecentCount
	case count > maxRecentCount:
		return maxRecentCount
	default:
		return count
	}
}

func (s *documentService) Categories(ctx context.Context) ([]string, error) {
	return s.store.Documents().Categories(ctx)
}

func (s *documentService) Get(ctx context.Context, id, userID string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Get",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	return s.require(ctx, s.store, id, userID, model.AccessRead, ErrNotFound)
}

func (s *documentService) Create(ctx context.Context, userID string, req CreateDocumentRequest) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Create")
	defer span.End()

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := s.now().UTC()
	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		FileName:    req.FileName,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		FilePath:    s.paths.DocumentPath(req.FileName),
		Category:    req.Category,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
		IsActive:    true,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.store.Documents().Create(ctx, doc)
	if err != nil {
		return nil, err
	}

	s.log.Info("document_created", zap.String("document_id", stored.ID), zap.String("user_id", userID))
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, id, userID string, req UpdateDocumentRequest) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Update",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var out *model.Document
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		doc, err := s.require(ctx, tx, id, userID, model.AccessWrite, ErrNotFound)
		if err != nil {
			return err
		}

		doc.Title = req.Title
		doc.Description = req.Description
		doc.Category = req.Category
		doc.Tags = req.Tags
		doc.IsPublic = req.IsPublic
		doc.UpdatedBy = userID
		doc.UpdatedAt = s.now().UTC()
		if err := tx.Documents().Update(ctx, doc); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		out, err = tx.Documents().FindActiveByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *documentService) Delete(ctx context.Context, id, userID string) error {
	ctx, span := tracer.Start(ctx, "DocumentService.Delete",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := s.require(ctx, tx, id, userID, model.AccessAdmin, ErrNotFound); err != nil {
			return err
		}
		if err := tx.Documents().SoftDelete(ctx, id, userID, s.now().UTC()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("document_deleted", zap.String("document_id", id), zap.String("user_id", userID))
	return nil
}

func (s *documentService) HasAccess(ctx context.Context, id, userID string, level model.AccessLevel) (bool, error) {
	_, ok, err := s.authorize(ctx, s.store, id, userID, level)
	return ok, err
}

func (s *documentService) GrantAccess(ctx context.Context, id, actorID string, req GrantAccessRequest) (*model.DocumentAccess, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.GrantAccess",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var out *model.DocumentAccess
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := s.require(ctx, tx, id, actorID, model.AccessAdmin, ErrAccessDenied); err != nil {
			return err
		}

		if _, err := tx.Users().FindActiveByID(ctx, req.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		a, err := tx.Accesses().Upsert(ctx, &model.DocumentAccess{
			ID:         uuid.New().String(),
			DocumentID: id,
			UserID:     req.UserID,
			AccessType: req.AccessType,
			GrantedBy:  actorID,
			GrantedAt:  s.now().UTC(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrReferenceMissing) {
				return ErrUserNotFound
			}
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("access_granted",
		zap.String("document_id", id),
		zap.String("user_id", req.UserID),
		zap.String("access_type", req.AccessType.String()),
		zap.String("granted_by", actorID),
	)
	return out, nil
}

func (s *documentService) RevokeAccess(ctx context.Context, id, actorID, targetUserID string) error {
	ctx, span := tracer.Start(ctx, "DocumentService.RevokeAccess",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := s.require(ctx, tx, id, actorID, model.AccessAdmin, ErrAccessDenied); err != nil {
			return err
		}
		if err := tx.Accesses().Delete(ctx, id, targetUserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("access_revoked",
		zap.String("document_id", id),
		zap.String("user_id", targetUserID),
		zap.String("revoked_by", actorID),
	)
	return nil
}

func (s *documentService) ListAccess(ctx context.Context, id, actorID string) ([]model.DocumentAccess, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.ListAccess")
	defer span.End()

	if _, err := s.require(ctx, s.store, id, actorID, model.AccessAdmin, ErrNotFound); err != nil {
		return nil, err
	}
	return s.store.Accesses().ListByDocument(ctx, id)
}

func (s *documentService) CreateVersion(ctx context.Context, id, userID string, req CreateVersionRequest) (*model.DocumentVersion, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.CreateVersion",
		trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	req.Version = strings.TrimSpace(req.Version)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var out *model.DocumentVersion
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		doc, err := s.require(ctx, tx, id, userID, model.AccessWrite, ErrAccessDenied)
		if err != nil {
			return err
		}

		fileName := req.FileName
		if fileName == "" {
			fileName = doc.FileName
		}
		v, err := tx.Versions().Create(ctx, &model.DocumentVersion{
			ID:         uuid.New().String(),
			DocumentID: id,
			Version:    req.Version,
			FilePath:   s.paths.VersionPath(fileName),
			FileSize:   req.FileSize,
			ChangeLog:  req.ChangeLog,
			IsActive:   true,
			CreatedBy:  userID,
			CreatedAt:  s.now().UTC(),
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrVersionExists
			}
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("version_created", zap.String("document_id", id), zap.String("version", out.Version))
	return out, nil
}

func (s *documentService) ListVersions(ctx context.Context, id, userID string) ([]model.DocumentVersion, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.ListVersions")
	defer span.End()

	if _, err := s.require(ctx, s.store, id, userID, model.AccessRead, ErrNotFound); err != nil {
		return nil, err
	}
	return s.store.Versions().ListActiveByDocument(ctx, id)
}
