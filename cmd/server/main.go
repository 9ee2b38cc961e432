package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/config"
	"github.com/HAAN6892/real-estate-monitor/internal/api"
	"github.com/HAAN6892/real-estate-monitor/internal/database"
	"github.com/HAAN6892/real-estate-monitor/internal/ingest"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/policy"
	"github.com/HAAN6892/real-estate-monitor/internal/processor"
	"github.com/HAAN6892/real-estate-monitor/internal/queue"
	"github.com/HAAN6892/real-estate-monitor/internal/scheduler"
	"github.com/HAAN6892/real-estate-monitor/internal/telegram"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbPath := cfg.Database.Path
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", dbPath)

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Telegram alerting
	telegramService := telegram.NewService(logger)
	telegramService.UpdateConfig(&models.TelegramConfig{
		BotToken:  cfg.Telegram.BotToken,
		ChatID:    cfg.Telegram.ChatID,
		IsEnabled: cfg.Telegram.Enabled,
	})
	telegramService.SetWishlist(cfg.Telegram.Wishlist)

	// Record ingestion: collector -> queue -> batch processors -> sqlite
	recordQueue := queue.NewRecordQueue(cfg.BatchProcessing.MaxBatchSize, logger)
	recordQueue.Start()
	defer recordQueue.Close()

	batchProcessor := processor.NewBatchProcessor(db.GetDB(), recordQueue, cfg, logger)
	batchProcessor.Start()
	defer batchProcessor.Stop()

	handler := api.NewHandler(db, cfg, telegramService, logger)

	// Serve whatever the last run collected before the first refresh lands
	if err := handler.RebuildSnapshot(); err != nil {
		logger.WithError(err).Error("Failed to build initial snapshot")
	}

	collector := ingest.NewCollector(db, recordQueue, cfg, logger)
	sched := scheduler.NewScheduler(collector, handler.RebuildSnapshot, logger)

	if cfg.Telegram.Enabled {
		policyMonitor := policy.NewMonitor(nil, 15*time.Second, logger)
		sched.SetPolicyCheck(func() {
			alerts := policyMonitor.Check(context.Background())
			if len(alerts) == 0 {
				return
			}
			if err := telegramService.SendLongMessage(policy.FormatAlerts(alerts)); err != nil {
				logger.WithError(err).Warn("Failed to send policy alerts")
			}
		})
	}

	sched.Start()
	defer sched.Stop()

	router := gin.Default()
	api.SetupRoutes(router, handler, cfg.Server.AllowOrigins)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
