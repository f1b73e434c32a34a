package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"docarchive/docs"
	"docarchive/internal/auth"
	"docarchive/internal/bootstrap"
	"docarchive/internal/config"
	handlers "docarchive/internal/http/handler"
	"docarchive/internal/http/middleware"
	"docarchive/internal/logging"
	"docarchive/internal/otel"
	"docarchive/internal/repository"
	"docarchive/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Document Archive API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		fatal(logger, "tracing init failed", err)
	}

	store, err := bootstrap.OpenStore(ctx, cfg, logger, cfg.AutoMigrate)
	if err != nil {
		fatal(logger, "failed to open store", err, "backend", cfg.StoreBackend)
	}

	// Object storage is optional; without it documents carry metadata only.
	objects, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		fatal(logger, "failed to initialize object storage", err, "driver", cfg.StorageDriver)
	}
	if objects == nil {
		logger.Warn("object storage disabled, file uploads will be rejected")
	}

	verifier, authenticator, err := setupAuth(cfg.Auth, logger)
	if err != nil {
		fatal(logger, "failed to initialize auth", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(registry)
	if err != nil {
		fatal(logger, "failed to register metrics", err)
	}

	deps := handlers.Deps{
		Health:     store,
		Categories: service.NewCategoryService(store, logger),
		Documents: service.NewDocumentService(store, objects, logger,
			service.WithPresignTTL(time.Duration(cfg.PresignTTLSec)*time.Second),
			service.WithLocation(loc),
		),
		Activity:   service.NewActivityLogService(store),
		Dashboard:  service.NewDashboardService(store),
		System:     service.NewSystemService(store, logger),
		Verifier:   verifier,
		LoginRPS:   cfg.Auth.LoginRPS,
		LoginBurst: cfg.Auth.LoginBurst,
		Gatherer:   registry,
		Logger:     logger,
		Location:   loc,
	}
	if authenticator != nil {
		deps.Authenticator = authenticator
	}
	if sub, ok := store.(repository.Subscriber); ok {
		deps.Subscriber = sub
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders: "X-Request-ID, Content-Disposition",
	}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	handlers.RegisterRoutes(app, deps)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_started",
			"addr", addr,
			"store_backend", cfg.StoreBackend,
			"storage_driver", cfg.StorageDriver,
			"auth_enabled", verifier != nil,
		)
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown_signal_received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if verifier != nil {
		if err := verifier.Close(); err != nil {
			logger.Error("verifier close failed", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("store close failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown failed", "error", err)
	}
	logger.Info("server_stopped")
}

// setupAuth picks the token verifier. A JWKS URL delegates token issuing to the
// identity provider, so local login is only offered with an HMAC secret.
func setupAuth(cfg config.AuthConfig, logger *slog.Logger) (auth.Verifier, *auth.HMACAuthenticator, error) {
	log := logger.With("component", "auth")
	switch {
	case cfg.JWKSURL != "":
		v, err := auth.NewJWKSVerifier(cfg.JWKSURL, log)
		if err != nil {
			return nil, nil, err
		}
		return v, nil, nil
	case cfg.JWTSecret != "":
		a, err := auth.NewHMACAuthenticator(cfg.JWTSecret, time.Duration(cfg.TokenTTLMin)*time.Minute,
			cfg.AdminUsername, cfg.AdminPasswordHash, log)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AdminPasswordHash == "" {
			log.Warn("ADMIN_PASSWORD_HASH is empty, /auth/login will reject every attempt")
		}
		return a, a, nil
	}
	log.Warn("authentication disabled, every route is public")
	return nil, nil, nil
}

func fatal(logger *slog.Logger, msg string, err error, args ...any) {
	logger.Error(msg, append([]any{"error", err}, args...)...)
	os.Exit(1)
}
