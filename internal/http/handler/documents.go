package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docsportal/internal/http/middleware"
	"docsportal/internal/service"
)

// documentID validates the :id route parameter.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

// ListDocuments returns documents visible to the caller.
//
// @Summary   List documents
// @Tags      documents
// @Security  BearerAuth
// @Produce   json
// @Param     category  query     string  false  "Category (case-insensitive)"
// @Param     search    query     string  false  "Substring of title, description or tags"
// @Success   200       {array}   model.Document
// @Router    /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext(), middleware.UserIDFromCtx(c), service.ListOptions{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		})
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}

// ListPublicDocuments returns active public documents.
//
// @Summary  Public documents
// @Tags     documents
// @Produce  json
// @Success  200  {array}  model.Document
// @Router   /api/documents/public [get]
func ListPublicDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.ListPublic(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}

// ListRecentDocuments returns the most recently updated documents the caller can read.
//
// @Summary  Recent documents
// @Tags     documents
// @Produce  json
// @Param    count  query    int  false  "Number of documents (1-100)"  default(10)
// @Success  200    {array}  model.Document
// @Failure  400    {object} errorPayload
// @Router   /api/documents/recent [get]
func ListRecentDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count := 0
		if raw := c.Query("count"); raw != "" {
			n := c.QueryInt("count", -1)
			if n < 0 {
				return writeError(c, fiber.StatusBadRequest, "INVALID_COUNT", "invalid count")
			}
			count = n
		}
		docs, err := svc.ListRecent(c.UserContext(), middleware.UserIDFromCtx(c), count)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(docs)
	}
}

// ListCategories returns the distinct categories in use.
//
// @Summary  Categories
// @Tags     documents
// @Produce  json
// @Success  200  {array}  string
// @Router   /api/documents/categories [get]
func ListCategories(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cats, err := svc.Categories(c.UserContext())
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(cats)
	}
}

// GetDocument returns one document.
//
// @Summary   Get document
// @Tags      documents
// @Security  BearerAuth
// @Produce   json
// @Param     id   path      string  true  "Document ID"
// @Success   200  {object}  model.Document
// @Failure   404  {object}  errorPayload
// @Router    /api/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		doc, err := svc.Get(c.UserContext(), id, middleware.UserIDFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// CreateDocument registers a new document owned by the caller.
//
// @Summary   Create document
// @Tags      documents
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     body  body      service.CreateDocumentRequest  true  "Document"
// @Success   201   {object}  model.Document
// @Failure   400   {object}  errorPayload
// @Router    /api/documents [post]
func CreateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.CreateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Create(c.UserContext(), middleware.UserIDFromCtx(c), req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// UpdateDocument edits document metadata. Requires Write.
//
// @Summary   Update document
// @Tags      documents
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      string                         true  "Document ID"
// @Param     body  body      service.UpdateDocumentRequest  true  "Changes"
// @Success   200   {object}  model.Document
// @Failure   404   {object}  errorPayload
// @Router    /api/documents/{id} [put]
func UpdateDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req service.UpdateDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := svc.Update(c.UserContext(), id, middleware.UserIDFromCtx(c), req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument soft-deletes a document. Requires Admin.
//
// @Summary   Delete document
// @Tags      documents
// @Security  BearerAuth
// @Param     id  path  string  true  "Document ID"
// @Success   204
// @Failure   404  {object}  errorPayload
// @Router    /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id, middleware.UserIDFromCtx(c)); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GrantAccess gives another user a level on the document. Requires Admin.
//
// @Summary   Grant access
// @Tags      access
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      string                      true  "Document ID"
// @Param     body  body      service.GrantAccessRequest  true  "Grant"
// @Success   200   {object}  model.DocumentAccess
// @Failure   400   {object}  errorPayload
// @Router    /api/documents/{id}/access [post]
func GrantAccess(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req service.GrantAccessRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		a, err := svc.GrantAccess(c.UserContext(), id, middleware.UserIDFromCtx(c), req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(a)
	}
}

// RevokeAccess removes a user's grant. Requires Admin.
//
// @Summary   Revoke access
// @Tags      access
// @Security  BearerAuth
// @Param     id      path  string  true  "Document ID"
// @Param     userId  path  string  true  "User ID"
// @Success   204
// @Failure   400  {object}  errorPayload
// @Failure   404  {object}  errorPayload
// @Router    /api/documents/{id}/access/{userId} [delete]
func RevokeAccess(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		target := c.Params("userId")
		if _, err := uuid.Parse(target); err != nil {
			return invalidID(c)
		}
		if err := svc.RevokeAccess(c.UserContext(), id, middleware.UserIDFromCtx(c), target); err != nil {
			return serviceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListAccess returns the grants on a document. Requires Admin.
//
// @Summary   List grants
// @Tags      access
// @Security  BearerAuth
// @Produce   json
// @Param     id   path     string  true  "Document ID"
// @Success   200  {array}  model.DocumentAccess
// @Failure   404  {object} errorPayload
// @Router    /api/documents/{id}/access [get]
func ListAccess(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		grants, err := svc.ListAccess(c.UserContext(), id, middleware.UserIDFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(grants)
	}
}

// CreateVersion appends a labelled version. Requires Write.
//
// @Summary   Create version
// @Tags      versions
// @Security  BearerAuth
// @Accept    json
// @Produce   json
// @Param     id    path      string                        true  "Document ID"
// @Param     body  body      service.CreateVersionRequest  true  "Version"
// @Success   201   {object}  model.DocumentVersion
// @Failure   400   {object}  errorPayload
// @Router    /api/documents/{id}/versions [post]
func CreateVersion(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		var req service.CreateVersionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		v, err := svc.CreateVersion(c.UserContext(), id, middleware.UserIDFromCtx(c), req)
		if err != nil {
			return serviceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(v)
	}
}

// ListVersions returns active versions, newest first. Requires Read.
//
// @Summary   List versions
// @Tags      versions
// @Security  BearerAuth
// @Produce   json
// @Param     id   path     string  true  "Document ID"
// @Success   200  {array}  model.DocumentVersion
// @Failure   404  {object} errorPayload
// @Router    /api/documents/{id}/versions [get]
func ListVersions(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return invalidID(c)
		}
		versions, err := svc.ListVersions(c.UserContext(), id, middleware.UserIDFromCtx(c))
		if err != nil {
			return serviceError(c, err)
		}
		return c.JSON(versions)
	}
}
