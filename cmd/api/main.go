package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docsportal/internal/auth"
	"docsportal/internal/config"
	"docsportal/internal/database"
	"docsportal/internal/database/migration"
	handlers "docsportal/internal/http/handler"
	"docsportal/internal/http/middleware"
	"docsportal/internal/logger"
	"docsportal/internal/otel"
	"docsportal/internal/repository/postgres"
	"docsportal/internal/service"
	"docsportal/internal/storage"
)

// @title                       Docs Portal API
// @version                     1.0
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("config_load_failed", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("config_invalid", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal("db_connect_failed", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("db_migration_failed", zap.Error(err))
	}

	store := postgres.NewStore(db)
	tokens := auth.NewIssuer(cfg.JWT)
	authSvc := service.NewAuthService(store, tokens, auth.NewPasswords(auth.DefaultPasswordCost), log)
	docSvc := service.NewDocumentService(store, storage.NewPaths(), log)

	if err := authSvc.SeedAdmin(ctx, cfg.Seed); err != nil {
		log.Fatal("admin_seed_failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(otelfiber.Middleware())
	app.Use(metrics.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:        db,
		Tokens:    tokens,
		Auth:      authSvc,
		Documents: docSvc,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutdown_started")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("http_shutdown_failed", zap.Error(err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	addr := cfg.AppHost + ":" + cfg.Port
	log.Info("http_server_starting", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("http_server_failed", zap.Error(err))
	}
	<-done
	log.Info("shutdown_complete")
}
