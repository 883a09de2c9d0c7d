package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/hookinbox/hookinbox/internal/config"
	"github.com/hookinbox/hookinbox/internal/handlers"
	"github.com/hookinbox/hookinbox/internal/logging"
	"github.com/hookinbox/hookinbox/internal/ratelimit"
	"github.com/hookinbox/hookinbox/internal/repository"
	"github.com/hookinbox/hookinbox/internal/server"
	"github.com/hookinbox/hookinbox/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to migration files")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("hookinbox"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook inbox",
		slog.Int("port", cfg.Server.Port),
		slog.Int("max_events", cfg.Retention.MaxEvents),
		slog.String("log_level", cfg.Logging.Level),
	)

	// Initialize repository based on config
	var repo repository.EventRepository
	if cfg.Database.URL != "" {
		slog.Info("Connecting to PostgreSQL")

		pgRepo, err := repository.NewPostgresRepository(context.Background(), cfg.Database.URL)
		if err != nil {
			slog.Error("Failed to connect to PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pgRepo.Close()
		repo = pgRepo
		slog.Info("Connected to PostgreSQL")

		// Run database migrations
		slog.Info("Running database migrations")
		m, err := migrate.New(
			fmt.Sprintf("file://%s", *migrationsPath),
			cfg.Database.URL,
		)
		if err != nil {
			slog.Error("Failed to initialize migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			slog.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		slog.Warn("No database configured, using in-memory store (development only)")
		repo = repository.NewInMemoryRepository()
	}

	// Optional ingestion rate limiter
	var limiter ratelimit.RateLimiter = &ratelimit.NoOpRateLimiter{}
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.NewRedisRateLimiter(
			cfg.RateLimit.RedisURL,
			cfg.RateLimit.Requests,
			cfg.RateLimit.Window,
		)
		if err != nil {
			slog.Error("Failed to initialize rate limiter", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer limiter.Close()
		slog.Info("Ingestion rate limiting enabled",
			slog.Int("requests", cfg.RateLimit.Requests),
			slog.Duration("window", cfg.RateLimit.Window),
		)
	}

	inbox := service.NewInboxService(repo, cfg.Retention.MaxEvents, logger)

	webhookHandler := handlers.NewWebhookHandler(inbox, limiter, cfg.Ingest.MaxBodySize, logger)
	viewerHandler := handlers.NewViewerHandler(inbox, logger)
	healthHandler := handlers.NewHealthHandler(inbox)

	router := server.NewRouter(webhookHandler, viewerHandler, healthHandler, server.AuthConfig{
		WebhookToken:   cfg.Ingest.Token,
		ViewerUsername: cfg.Viewer.Username,
		ViewerPassword: cfg.Viewer.Password,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Webhook inbox listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
