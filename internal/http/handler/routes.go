package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "docsportal/docs"
	"docsportal/internal/http/middleware"
	"docsportal/internal/service"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	DB        *sql.DB
	Tokens    middleware.TokenParser
	Auth      service.AuthService
	Documents service.DocumentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// SwaggerInfo keeps host and schemes empty so the UI targets whichever host served it.
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api")
	requireAuth := middleware.RequireAuth(d.Tokens)
	optionalAuth := middleware.OptionalAuth(d.Tokens)

	authGroup := api.Group("/auth")
	authGroup.Post("/login", Login(d.Auth))
	authGroup.Post("/register", Register(d.Auth))
	authGroup.Post("/refresh", Refresh(d.Auth))
	authGroup.Post("/logout", requireAuth, Logout(d.Auth))
	authGroup.Get("/profile", requireAuth, GetProfile(d.Auth))
	authGroup.Put("/profile", requireAuth, UpdateProfile(d.Auth))
	authGroup.Post("/change-password", requireAuth, ChangePassword(d.Auth))

	docs := api.Group("/documents")
	// Anonymous routes go first so /public etc. never match /:id.
	docs.Get("/public", ListPublicDocuments(d.Documents))
	docs.Get("/recent", optionalAuth, ListRecentDocuments(d.Documents))
	docs.Get("/categories", ListCategories(d.Documents))

	docs.Get("/", requireAuth, ListDocuments(d.Documents))
	docs.Post("/", requireAuth, CreateDocument(d.Documents))
	docs.Get("/:id", requireAuth, GetDocument(d.Documents))
	docs.Put("/:id", requireAuth, UpdateDocument(d.Documents))
	docs.Delete("/:id", requireAuth, DeleteDocument(d.Documents))

	docs.Get("/:id/access", requireAuth, ListAccess(d.Documents))
	docs.Post("/:id/access", requireAuth, GrantAccess(d.Documents))
	docs.Delete("/:id/access/:userId", requireAuth, RevokeAccess(d.Documents))

	docs.Get("/:id/versions", requireAuth, ListVersions(d.Documents))
	docs.Post("/:id/versions", requireAuth, CreateVersion(d.Documents))
}
