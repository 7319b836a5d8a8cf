package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/videopipe/gostream/internal/api/handler"
	"github.com/videopipe/gostream/internal/api/middleware"
	"github.com/videopipe/gostream/internal/auth"
	"github.com/videopipe/gostream/internal/config"
	"github.com/videopipe/gostream/internal/infrastructure/cache"
	"github.com/videopipe/gostream/internal/infrastructure/postgres"
	"github.com/videopipe/gostream/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("connected to Redis")

	issuer, err := auth.NewIssuer(cfg.Auth.PrivateKeyPEM, cfg.Auth.PublicKeyPEM)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT issuer: %w", err)
	}
	blacklist := auth.NewBlacklist(redisClient)

	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	videoCache := cache.NewRedisVideoCache(redisClient)
	videoQuerySvc := usecase.NewVideoQueryService(videoRepo, videoCache, usecase.DefaultVideoQueryServiceConfig())

	videoHandler := handler.NewVideoHandler(videoQuerySvc)
	authHandler := handler.NewAuthHandler(issuer, blacklist, cfg.Auth.AccessTokenTTL)

	r := setupRouter(logger, videoHandler, authHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, videoHandler *handler.VideoHandler, authHandler *handler.AuthHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)

	r.Get("/video/", videoHandler.Get)
	r.Get("/videos/author/{id}", videoHandler.GetByAuthor)
	r.Get("/videos/batch", videoHandler.GetBatch)
	r.Get("/videos/", videoHandler.List)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})

	return r
}
