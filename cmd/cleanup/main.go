// Command cleanup runs one sweep pass over the subscription store and
// the nutrition ledger, then exits. Intended for cron.
package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/andriihrytsai/nutrition-bot/internal/cleanup"
	"github.com/andriihrytsai/nutrition-bot/internal/config"
	"github.com/andriihrytsai/nutrition-bot/internal/database"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
	"github.com/andriihrytsai/nutrition-bot/internal/repository"
	"github.com/andriihrytsai/nutrition-bot/internal/services"
)

func main() {
	_ = godotenv.Load()

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

	db, err := database.NewSQLiteDB(cfg.Storage.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	profileRepo := repository.NewProfileRepository(cfg.Storage.ProfilePath, cfg.Access.MaxFreeTrials)

	subscriptionService := services.NewSubscriptionService(subscriptionRepo, profileRepo)
	nutritionService := services.NewNutritionService(nil, ledgerRepo)

	job := cleanup.NewJob(subscriptionService, nutritionService, cfg.Storage.RetentionHours)
	job.Run(context.Background())
}
