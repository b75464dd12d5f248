// Package main is the entrypoint for the Campusmart web server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/campusmart/campusmart/internal/cache"
	"github.com/campusmart/campusmart/internal/config"
	"github.com/campusmart/campusmart/internal/handler"
	"github.com/campusmart/campusmart/internal/metrics"
	"github.com/campusmart/campusmart/internal/middleware"
	"github.com/campusmart/campusmart/internal/notify"
	"github.com/campusmart/campusmart/internal/repository"
	"github.com/campusmart/campusmart/internal/server"
	"github.com/campusmart/campusmart/internal/service"
	"github.com/campusmart/campusmart/internal/storage"
	"github.com/campusmart/campusmart/internal/web"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize session store / rate limiter
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Initialize object storage
	store, err := storage.New(cfg.MediaDir, cfg.BaseURL)
	if err != nil {
		logger.Error("failed to initialize media storage",
			slog.String("error", err.Error()),
			slog.String("media_dir", cfg.MediaDir),
		)
		os.Exit(1)
	}
	logger.Info("media storage ready", "dir", cfg.MediaDir)

	// Initialize page renderer
	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	notices := notify.NewCenter()
	authService := service.NewAuthService(repo, cacheClient, cfg.SessionTTL, metricsRecorder)
	listingService := service.NewListingService(repo, store, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	pageHandler := handler.NewPageHandler(listingService, renderer, notices, logger)
	authHandler := handler.NewAuthHandler(authService, notices, logger, cfg.SessionCookieName, cfg.SessionTTL, cfg.IsProduction())
	listingHandler := handler.NewListingHandler(listingService, notices, logger, cfg.MaxUploadSize)
	mediaHandler := handler.NewMediaHandler(store)

	// Setup router
	r := setupRouter(h, healthHandler, pageHandler, authHandler, listingHandler, mediaHandler, authService, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("database", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	pageHandler *handler.PageHandler,
	authHandler *handler.AuthHandler,
	listingHandler *handler.ListingHandler,
	mediaHandler *handler.MediaHandler,
	authService *service.AuthService,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxUploadSize + 1<<20, // form fields on top of the image
	}))

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Session middleware configuration
	sessionCfg := middleware.SessionConfig{
		Logger:     logger,
		Resolver:   authService,
		CookieName: cfg.SessionCookieName,
	}

	// Rate limit middleware configuration for the auth endpoints
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitAuthEnabled,
		RPS:     cfg.RateLimitAuthRPS,
		Burst:   cfg.RateLimitAuthBurst,
	}

	// Browser-facing routes (session resolved on every request)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(sessionCfg))

		r.Get("/", pageHandler.Home)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/signup", authHandler.Signup)
			r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
		})

		r.Post("/listings", listingHandler.Create)
	})

	// Uploaded images and static assets (no session needed)
	r.Get("/media/item-images/{key}", mediaHandler.Serve)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS()))))

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
