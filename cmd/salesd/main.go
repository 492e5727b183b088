package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/huyhoang1996vn/zinc-assignment/internal/amqp"
	"github.com/huyhoang1996vn/zinc-assignment/internal/cache"
	"github.com/huyhoang1996vn/zinc-assignment/internal/config"
	apphttp "github.com/huyhoang1996vn/zinc-assignment/internal/http"
	applog "github.com/huyhoang1996vn/zinc-assignment/internal/log"
	"github.com/huyhoang1996vn/zinc-assignment/internal/services"
	"github.com/huyhoang1996vn/zinc-assignment/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// Schema first. fail-open keeps the server up when migrations are run
	// out of band; fail-fast refuses to serve a stale schema.
	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		if cfg.MigratePolicy == config.MigrateFailFast {
			logger.Error("Migrations failed", applog.FieldOperation, applog.OpMigrate, applog.FieldError, err)
			os.Exit(1)
		}
		logger.Error("Migrations failed, continuing per fail-open policy",
			applog.FieldOperation, applog.OpMigrate, applog.FieldError, err)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open SQLite database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a URL imports simply skip event publishing.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP broker unavailable, continuing without import events", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("AMQP publisher initialized",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	cacheManager := cache.NewManager()
	cachedMetrics := services.NewCachedMetrics(repo, cacheManager)
	cacheManager.StartCleanup(5 * time.Minute)
	defer cacheManager.Stop()

	importService := services.NewImportService(repo, publisher)
	importService.UseMetricsCache(cachedMetrics)

	srv := apphttp.NewServer(":"+cfg.Port, importService, cachedMetrics, repo, apphttp.Options{
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger.WithComponent(applog.ComponentHTTP),
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 30 * time.Second // spreadsheet uploads can be large
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting sales server",
			applog.FieldOperation, applog.OpStartup, "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
