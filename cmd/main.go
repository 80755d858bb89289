package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trunkcat/fixtures/apiclient"
	"github.com/trunkcat/fixtures/config"
	"github.com/trunkcat/fixtures/handlers"
	"github.com/trunkcat/fixtures/live"
	"github.com/trunkcat/fixtures/metrics"
	api "github.com/trunkcat/fixtures/routes"
	"github.com/trunkcat/fixtures/services"
	"github.com/trunkcat/fixtures/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("api_base_url", cfg.API.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	client, err := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		Token:     cfg.API.Token,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Logger:    logger,
		Metrics:   m,
	})
	if err != nil {
		logger.Error("failed to create API client", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	hub := live.NewHub(logger, m)
	go hub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Публикация расписания в R2 необязательна.
	var publisher handlers.SnapshotPublisher
	if cfg.R2.Enabled() {
		uploader, err := storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.BucketName,
			PublicBaseURL:   cfg.R2.PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = storage.NewSnapshotPublisher(uploader, logger)
		logger.Info("Cloudflare R2 uploader initialized", slog.String("bucket", cfg.R2.BucketName))
	} else {
		logger.Info("R2 is not configured, snapshot publishing disabled")
	}

	// Инициализация сервисов
	notifier := services.NewLogNotifier(logger)
	matchService := services.NewMatchService(client, hub, notifier, logger)
	stageItemService := services.NewStageItemService(client, notifier, logger)
	tournamentService := services.NewTournamentService(client, notifier, logger)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Schedule:   handlers.NewScheduleHandler(client, publisher, logger),
		StageItem:  handlers.NewStageItemHandler(stageItemService),
		Match:      handlers.NewMatchHandler(matchService),
		Tournament: handlers.NewTournamentHandler(tournamentService),
		WebSocket:  handlers.NewWebSocketHandler(hub, cfg.Server.CORSAllowedOrigins, logger),
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, h, m, cfg.Server.CORSAllowedOrigins, logger)
	logger.Info("Routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 40 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
