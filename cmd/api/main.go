package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamhub/accounts/internal/cache"
	"github.com/streamhub/accounts/internal/config"
	"github.com/streamhub/accounts/internal/database"
	"github.com/streamhub/accounts/internal/events"
	"github.com/streamhub/accounts/internal/logging"
	"github.com/streamhub/accounts/internal/metrics"
	"github.com/streamhub/accounts/internal/profile"
	"github.com/streamhub/accounts/internal/session"
	"github.com/streamhub/accounts/internal/storage"
	"github.com/streamhub/accounts/internal/token"
	"github.com/streamhub/accounts/internal/tracing"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize tracing
	if cfg.Tracing.Enabled {
		_, closer, err := tracing.Init(cfg.Tracing)
		if err != nil {
			logger.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer closer.Close()
	}

	// Initialize database
	db, err := database.New(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	users := database.NewUserRepository(db)
	subs := database.NewSubscriptionRepository(db)
	videos := database.NewVideoRepository(db)

	// Initialize cache
	redisCache, err := cache.NewCache(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Initialize media storage
	media, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize token service
	tokens, err := token.NewService(cfg.Auth)
	if err != nil {
		logger.Fatalf("Failed to initialize token service: %v", err)
	}

	// Initialize event publisher
	var publisher session.EventPublisher
	if cfg.Queue.Enabled {
		pub, err := events.New(cfg.Queue)
		if err != nil {
			logger.Fatalf("Failed to connect to queue: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	sessions := session.NewManager(users, tokens, publisher, logger)
	profiles := profile.NewService(users, subs, videos, redisCache, logger)

	api := &API{
		sessions: sessions,
		profiles: profiles,
		tokens:   tokens,
		users:    users,
		subs:     subs,
		videos:   videos,
		media:    media,
		cache:    redisCache,
		log:      logger,
	}

	router := setupRouter(api, cfg, logger)

	// Metrics server on its own port
	metricsServer := metrics.NewServer(cfg.Server.MetricsPort, logger)
	go func() {
		if err := metricsServer.Start(); err != nil {
			logger.Errorf("Metrics server error: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("Starting accounts API on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Errorf("Metrics server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
