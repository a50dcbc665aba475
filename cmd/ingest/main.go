package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"scamdunk-ingest/internal/ingest/config"
	"scamdunk-ingest/internal/ingest/reader"
	"scamdunk-ingest/internal/ingest/repository"
	"scamdunk-ingest/internal/ingest/scheduler"
	"scamdunk-ingest/internal/ingest/service"
	"scamdunk-ingest/pkg/logger"
	"scamdunk-ingest/pkg/postgres"
	redisPkg "scamdunk-ingest/pkg/redis"
	"scamdunk-ingest/pkg/telegram"

	"github.com/spf13/cobra"
)

var (
	configPath string
	flagDate   string
	flagFile   string
	flagDryRun bool
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Ingest a daily evaluation batch and detect risk changes",
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(func(ctx context.Context, deps *dependencies) error {
			report, err := deps.daily.Run(ctx, service.DailyIngestionOptions{
				Date:   flagDate,
				File:   flagFile,
				DryRun: flagDryRun,
			})
			if report != nil {
				fmt.Print(report.String())
			}
			return err
		})
	},
}

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "Ingest the most recent social-media/press promotion report",
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(func(ctx context.Context, deps *dependencies) error {
			report, err := deps.social.Run(ctx, service.SocialIngestionOptions{
				File:   flagFile,
				DryRun: flagDryRun,
			})
			if report != nil {
				fmt.Print(report.String())
			}
			return err
		})
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run both ingestions on the configured cron schedule",
	Run: func(cmd *cobra.Command, args []string) {
		runWithDeps(func(ctx context.Context, deps *dependencies) error {
			sched := scheduler.New(deps.daily, deps.social, deps.cfg.Ingest.CronSpec, deps.logger)
			return sched.Start(ctx)
		})
	},
}

type dependencies struct {
	cfg    *config.Config
	logger *logger.Logger
	daily  service.DailyIngestionService
	social service.SocialIngestionService
}

// runWithDeps wires configuration, logging, storage and services, runs fn,
// and exits non-zero on any unrecoverable error. Per-record errors inside a
// run are tallied in its report and do not fail the process.
func runWithDeps(fn func(ctx context.Context, deps *dependencies) error) {
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

	appLogger.Info("Starting ingestion CLI", logger.Field("name", cfg.App.Name))

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

	var redisClient *redisPkg.Client
	if cfg.Redis.Host != "" {
		redisClient, err = redisPkg.NewClient(redisPkg.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
	}

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	stockRepo := repository.NewStockRepository(db.DB)
	snapshotRepo := repository.NewDailySnapshotRepository(db.DB)
	summaryRepo := repository.NewScanSummaryRepository(db.DB)
	alertRepo := repository.NewRiskAlertRepository(db.DB)
	changeRepo := repository.NewRiskChangeRepository(db.DB)
	socialRepo := repository.NewSocialMediaScanRepository(db.DB)
	watchlistRepo := repository.NewPromotedStockRepository(db.DB)

	evalReader := reader.NewEvaluationReader(cfg.Ingest.DataDir, appLogger)
	reportParser := reader.NewReportParser(appLogger)

	detector := service.NewRiskChangeDetector(snapshotRepo, summaryRepo, alertRepo, changeRepo, notifier, appLogger)
	daily := service.NewDailyIngestionService(evalReader, stockRepo, snapshotRepo, summaryRepo, detector, redisClient, appLogger)
	social := service.NewSocialIngestionService(cfg.Ingest.ReportDir, reportParser, stockRepo, socialRepo, watchlistRepo, appLogger)

	deps := &dependencies{cfg: cfg, logger: appLogger, daily: daily, social: social}
	if err := fn(ctx, deps); err != nil {
		appLogger.Error("Run failed", logger.ErrorField(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "scamdunk-ingest",
		Short: "ScamDunk daily risk ingestion and change detection pipeline",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-ingest.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Scan date (YYYY-MM-DD), defaults to the latest available file")
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "Explicit input file path, wins over --date")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Read and classify everything but skip every write")

	rootCmd.AddCommand(dailyCmd, socialCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing ingest CLI: %s\n", err)
		os.Exit(1)
	}
}
