package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/andriihrytsai/nutrition-bot/internal/config"
)

func main() {
	fmt.Println("🔍 Перевірка конфігурації...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  .env файл не знайдено: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Помилка валідації конфігурації:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Конфігурація валідна!")
	fmt.Printf("📋 Деталі конфігурації:\n")
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Printf("  - Gemini API Key: %s\n", maskToken(cfg.GeminiAPIKey))
	fmt.Printf("  - DB Path: %s\n", cfg.Storage.DBPath)
	fmt.Printf("  - Profile Path: %s\n", cfg.Storage.ProfilePath)
	fmt.Printf("  - Retention Hours: %d\n", cfg.Storage.RetentionHours)
	fmt.Printf("  - Max Free Trials: %d\n", cfg.Access.MaxFreeTrials)
	fmt.Printf("  - Admins: %d\n", len(cfg.Admins.All()))
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return "<не встановлено>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
