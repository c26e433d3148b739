package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shutterdesk/shutterdesk/internal/albums"
	"github.com/shutterdesk/shutterdesk/internal/app"
	"github.com/shutterdesk/shutterdesk/internal/auth"
	"github.com/shutterdesk/shutterdesk/internal/categories"
	"github.com/shutterdesk/shutterdesk/internal/clients"
	"github.com/shutterdesk/shutterdesk/internal/instagram"
	"github.com/shutterdesk/shutterdesk/internal/observability"
	"github.com/shutterdesk/shutterdesk/internal/photos"
	"github.com/shutterdesk/shutterdesk/internal/platform/cache"
	"github.com/shutterdesk/shutterdesk/internal/platform/db"
	"github.com/shutterdesk/shutterdesk/internal/rbac"
	"github.com/shutterdesk/shutterdesk/internal/sessions"
	"github.com/shutterdesk/shutterdesk/internal/users"
	"github.com/shutterdesk/shutterdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// The feed cache degrades to database reads when redis is unreachable.
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, feed cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	tokens := auth.NewTokenVerifier(cfg.JWTSecret, cfg.JWTTTL)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokens, logger)
	rbacService := rbac.NewService(dbpool)
	guard := rbac.NewGuard()

	mw := auth.Middleware{
		Verifier:    tokens,
		Users:       authRepo,
		Permissions: rbacService,
		Logger:      logger,
		Metrics:     metrics,
	}
	authHandler := auth.NewHandler(logger, authService, mw)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService, rbacService, mw)

	sessionsRepo := sessions.NewRepository(dbpool)
	sessionsService := sessions.NewService(sessionsRepo, guard)
	sessionsHandler := sessions.NewHandler(logger, sessionsService, mw)

	storage := photos.NewDiskStorage(cfg.UploadDir, cfg.AppURL)
	photosRepo := photos.NewRepository(dbpool)
	photosService := photos.NewService(photosRepo, sessionsRepo, storage, guard, logger)
	photosHandler := photos.NewHandler(logger, photosService, mw)

	clientsRepo := clients.NewRepository(dbpool)
	clientsHandler := clients.NewHandler(logger, clientsRepo, mw)

	categoriesRepo := categories.NewRepository(dbpool)
	categoriesService := categories.NewService(categoriesRepo)
	categoriesHandler := categories.NewHandler(logger, categoriesService, mw)

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	albumsRepo := albums.NewRepository(dbpool)
	albumsService := albums.NewService(albumsRepo, clientsRepo, jobsClient, guard, logger, cfg.AppURL, cfg.ShareTokenTTL)
	albumsHandler := albums.NewHandler(logger, albumsService, mw)

	instagramRepo := instagram.NewRepository(dbpool)
	instagramService := instagram.NewService(instagramRepo, redisClient, logger, cfg.FeedCacheTTL)
	instagramHandler := instagram.NewHandler(logger, instagramService, mw)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		UsersHandler:      usersHandler,
		SessionsHandler:   sessionsHandler,
		PhotosHandler:     photosHandler,
		ClientsHandler:    clientsHandler,
		CategoriesHandler: categoriesHandler,
		AlbumsHandler:     albumsHandler,
		InstagramHandler:  instagramHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
