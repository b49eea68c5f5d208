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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/bukucerdas/bookstore/internal/config"
	"github.com/bukucerdas/bookstore/internal/events"
	"github.com/bukucerdas/bookstore/internal/httpserver"
	"github.com/bukucerdas/bookstore/internal/jobs"
	"github.com/bukucerdas/bookstore/internal/metrics"
	"github.com/bukucerdas/bookstore/internal/models"
	"github.com/bukucerdas/bookstore/internal/search"
	"github.com/bukucerdas/bookstore/internal/upload"
	pkgcfg "github.com/bukucerdas/bookstore/pkg/config"
	"github.com/bukucerdas/bookstore/pkg/db"
	"github.com/bukucerdas/bookstore/pkg/logging"
	"github.com/bukucerdas/bookstore/pkg/middleware/ratelimit"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.DBDriver != db.DriverSQLite {
		if err := pkgcfg.Required("DATABASE_URL"); err != nil {
			logger.Error("config_error", "error", err)
			os.Exit(1)
		}
	}
	gdb, err := db.Open(context.Background(), cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_error", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(models.All()...); err != nil {
		logger.Error("db_migrate_error", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
		publisher = producer
		logger.Info("events_enabled", "brokers", cfg.KafkaBrokers)
	}

	var indexer search.Indexer = search.Nop{}
	if cfg.ESURL != "" {
		client, err := search.NewClient(search.Config{
			URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex,
		})
		if err != nil {
			logger.Error("search_client_error", "error", err)
			os.Exit(1)
		}
		indexer = search.NewElastic(client, cfg.ESIndex)
		logger.Info("search_enabled", "url", cfg.ESURL, "index", cfg.ESIndex)
	}

	limiter := ratelimit.New(cfg.AuthRatePerSec, cfg.AuthRateBurst)
	deps := httpserver.Build(gdb, httpserver.Options{
		JWTSecret:      cfg.JWTSecret,
		SecureCookies:  cfg.Production(),
		CSRFEnabled:    cfg.CSRFEnabled,
		TrustedOrigins: cfg.CORSOrigins,
		PublicDir:      cfg.PublicDir,
		Events:         publisher,
		Search:         indexer,
		Files:          upload.New(cfg.PublicDir),
		Metrics:        metrics.New(),
		AuthLimiter:    limiter,
	})

	e := httpserver.NewEcho(logger)
	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, "X-CSRF-Token"},
			ExposeHeaders:    []string{"X-CSRF-Token"},
			AllowCredentials: true,
		}))
	}
	httpserver.Register(e, deps)

	jobOpts := jobs.Options{ReindexSchedule: cfg.ReindexSchedule, Limiter: limiter, Logger: logger}
	if indexer.Enabled() {
		jobOpts.Catalog = deps.Services.Catalog
	}
	scheduler, err := jobs.New(jobOpts)
	if err != nil {
		logger.Error("jobs_error", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}
	if err := scheduler.Stop(ctx); err != nil {
		logger.Error("jobs_stop_error", "error", err)
	}
	closeAll(logger, gdb, producer)
	logger.Info("shutdown_complete")
}

func closeAll(logger *slog.Logger, gdb *gorm.DB, producer *events.Producer) {
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}
}
