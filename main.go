package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/andriihrytsai/nutrition-bot/internal/bot"
	"github.com/andriihrytsai/nutrition-bot/internal/cleanup"
	"github.com/andriihrytsai/nutrition-bot/internal/config"
	"github.com/andriihrytsai/nutrition-bot/internal/database"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
	"github.com/andriihrytsai/nutrition-bot/internal/repository"
	"github.com/andriihrytsai/nutrition-bot/internal/services"
)

const cleanupInterval = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting nutrition bot...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	db, err := database.NewSQLiteDB(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	profileRepo := repository.NewProfileRepository(cfg.Storage.ProfilePath, cfg.Access.MaxFreeTrials)

	aiService, err := services.NewAIService(ctx, cfg.GeminiAPIKey)
	if err != nil {
		logger.Fatalf("Failed to initialize AI service: %v", err)
	}
	defer aiService.Close()

	entitlementService := services.NewEntitlementService(subscriptionRepo, profileRepo)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, profileRepo)
	nutritionService := services.NewNutritionService(aiService, ledgerRepo)
	logger.Info("Services initialized successfully")

	telegramBot, err := bot.NewBot(cfg, entitlementService, subscriptionService, nutritionService)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	job := cleanup.NewJob(subscriptionService, nutritionService, cfg.Storage.RetentionHours)
	go job.Start(ctx, cleanupInterval)

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("Bot stopped with error: %v", err)
	}
	logger.Info("Shutdown complete")
}
