package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scamdunk-ingest/internal/api/config"
	delivery "scamdunk-ingest/internal/api/delivery/http"
	"scamdunk-ingest/internal/api/service"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/postgres"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the read-only dashboard API",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Dashboard API", logger.Field("name", cfg.App.Name))

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	cacheTTL := parseDurationOr(cfg.Cache.TTL, time.Minute)
	cacheCleanup := parseDurationOr(cfg.Cache.CleanupInterval, 5*time.Minute)

	dashboard := service.NewDashboardService(
		repository.NewRiskAlertRepository(db.DB),
		repository.NewRiskChangeRepository(db.DB),
		repository.NewDailySnapshotRepository(db.DB),
		repository.NewScanSummaryRepository(db.DB),
		repository.NewPromotedStockRepository(db.DB),
		repository.NewSocialMediaScanRepository(db.DB),
		repository.NewStockRepository(db.DB),
		cacheTTL, cacheCleanup,
		appLogger,
	)

	e := echo.New()
	e.HideBanner = true

	apiV1 := e.Group("/api/v1")
	delivery.NewAlertHandler(dashboard, appLogger).RegisterRoutes(apiV1)
	delivery.NewSnapshotHandler(dashboard, appLogger).RegisterRoutes(apiV1)
	delivery.NewWatchlistHandler(dashboard, appLogger).RegisterRoutes(apiV1)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func main() {
	rootCmd := &cobra.Command{Use: "scamdunk-api"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing API CLI: %s\n", err)
		os.Exit(1)
	}
}
