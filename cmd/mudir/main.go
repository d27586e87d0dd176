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
	"github.com/redis/go-redis/v9"

	"github.com/Basharkhan7776/mudir/internal/app"
	"github.com/Basharkhan7776/mudir/internal/backup"
	"github.com/Basharkhan7776/mudir/internal/database"
	"github.com/Basharkhan7776/mudir/internal/observability"
	"github.com/Basharkhan7776/mudir/internal/platform/cache"
	"github.com/Basharkhan7776/mudir/internal/search"
	"github.com/Basharkhan7776/mudir/jobs"
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
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	backend, release, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Error("open storage", slog.String("driver", cfg.StorageDriver), slog.Any("error", err))
		os.Exit(1)
	}
	defer release()

	store, err := database.Open(ctx, backend, database.OpenOptions{
		Logger:   logger,
		Recorder: metrics,
		Currency: cfg.DefaultCurrency,
	})
	if err != nil {
		logger.Error("open document", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		searchCache *search.Cache
		jobHandler  *jobs.Handler
	)
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, search cache disabled", slog.Any("error", err))
		} else {
			defer closeRedis(logger, redisClient)
			searchCache = search.NewCache(redisClient, cfg.SearchCacheTTL)
		}

		redisOpt, err := app.AsynqRedisOpt(cfg.RedisAddr)
		if err != nil {
			logger.Error("parse redis address", slog.Any("error", err))
			os.Exit(1)
		}
		inspector := asynq.NewInspector(redisOpt)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobClient, err := jobs.NewClient(redisOpt)
		if err != nil {
			logger.Error("job client", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, jobClient, logger)
	}

	var backupStorage backup.ObjectStorage
	if storage, err := app.OpenBackupStorage(ctx, cfg); err != nil {
		logger.Warn("backup storage unavailable", slog.String("driver", cfg.BackupDriver), slog.Any("error", err))
	} else {
		backupStorage = storage
	}

	router := app.NewAPI(app.Deps{
		Logger:        logger,
		Config:        cfg,
		Metrics:       metrics,
		Store:         store,
		SearchCache:   searchCache,
		BackupStorage: backupStorage,
		Jobs:          jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("storage", cfg.StorageDriver))
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
	if err := store.Flush(shutdownCtx); err != nil {
		logger.Error("flush document", slog.Any("error", err))
	}
}

func closeRedis(logger *slog.Logger, client *redis.Client) {
	if err := client.Close(); err != nil {
		logger.Warn("redis close", slog.Any("error", err))
	}
}
