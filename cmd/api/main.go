// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/bookcatalog/internal/admin"
	"github.com/carterperez-dev/bookcatalog/internal/auth"
	"github.com/carterperez-dev/bookcatalog/internal/book"
	"github.com/carterperez-dev/bookcatalog/internal/config"
	"github.com/carterperez-dev/bookcatalog/internal/core"
	"github.com/carterperez-dev/bookcatalog/internal/health"
	"github.com/carterperez-dev/bookcatalog/internal/mail"
	"github.com/carterperez-dev/bookcatalog/internal/middleware"
	"github.com/carterperez-dev/bookcatalog/internal/review"
	"github.com/carterperez-dev/bookcatalog/internal/server"
	"github.com/carterperez-dev/bookcatalog/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	cache := core.NewRedisCache(redis.Client, "bookcatalog:")

	dispatcher := mail.NewDispatcher(
		mail.NewSender(cfg.Mail),
		cfg.Mail.QueueSize,
		cfg.Mail.Workers,
	)
	defer dispatcher.Close()
	verificationMailer := mail.NewVerificationMailer(dispatcher, cfg.Mail.SiteURL)
	logger.Info("mail dispatcher started",
		"enabled", cfg.Mail.Enabled,
		"workers", cfg.Mail.Workers,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(
		authRepo,
		userSvc,
		verificationMailer,
		cfg.Token.Length,
	)
	authHandler := auth.NewHandler(authSvc)

	bookRepo := book.NewRepository(db.DB)
	bookSvc := book.NewService(bookRepo, cache, cfg.Cache.FavoritesTTL)
	bookHandler := book.NewHandler(bookSvc)

	reviewRepo := review.NewRepository(db.DB)
	reviewSvc := review.NewService(reviewRepo, cache, cfg.Cache.RatingsTTL)
	reviewHandler := review.NewHandler(reviewSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Users:      userSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(authSvc)
	staffOnly := middleware.RequireStaff

	router.Route("/v1", func(r chi.Router) {
		// Public routes still see the caller's identity when a valid
		// token is presented.
		r.Use(middleware.OptionalAuth(authSvc))

		authHandler.RegisterRoutes(r, authenticator)
		bookHandler.RegisterRoutes(r, authenticator)
		reviewHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, staffOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
