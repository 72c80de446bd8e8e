package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/BuzzLyutic/tasklist/internal/config"
	"github.com/BuzzLyutic/tasklist/internal/handler"
	"github.com/BuzzLyutic/tasklist/internal/mirror"
	"github.com/BuzzLyutic/tasklist/internal/repo"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/internal/store"
	"github.com/BuzzLyutic/tasklist/internal/weather"
	"github.com/BuzzLyutic/tasklist/internal/worker"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
	}

	snapshots, err := repo.Open(ctx, repo.Options{
		Backend:     cfg.StorageBackend,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Redis:       redisClient,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		logger.Fatal("Failed to open snapshot storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer snapshots.Close()
	logger.Info("Snapshot storage ready", zap.String("backend", cfg.StorageBackend))

	var fetcher weather.Fetcher = weather.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPIKey, nil)
	if redisClient != nil {
		fetcher = weather.NewCachedClient(fetcher, redisClient, cfg.WeatherCacheTTL, logger)
	}
	tracker := weather.NewTracker(fetcher, logger, cfg.WeatherTimeout)
	defer tracker.Stop()

	flusher := worker.NewPool(snapshots, logger, cfg.FlushWorkers)
	flusher.Start(ctx)
	defer flusher.Stop()

	taskStore := store.New(logger)
	persist := mirror.New(snapshots, flusher, logger)
	persist.Hydrate(ctx, taskStore)
	defer persist.Attach(taskStore)()

	taskService := service.NewTaskService(taskStore, tracker, cfg.OutdoorKeywords, logger)
	defer taskService.Start()()

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(handler.NewTaskHandler(taskService, logger), logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if _, set := os.LookupEnv("DEV_LOGS"); set {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
