package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string
	Storage       StorageConfig
	Access        AccessConfig
	Logger        LoggerConfig
	Admins        *AdminList
}

type StorageConfig struct {
	DBPath         string
	ProfilePath    string
	RetentionHours int
}

type AccessConfig struct {
	MaxFreeTrials int
	PaymentText   string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseAdminIDs(raw string) []int64 {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		Storage: StorageConfig{
			DBPath:         getEnvOrDefault("DB_PATH", "subscriptions.db"),
			ProfilePath:    getEnvOrDefault("PROFILE_PATH", "users.json"),
			RetentionHours: getEnvIntOrDefault("RETENTION_HOURS", 24),
		},
		Access: AccessConfig{
			MaxFreeTrials: getEnvIntOrDefault("MAX_FREE_TRIALS", 2),
			PaymentText:   getEnvOrDefault("PAYMENT_CONTACT", "@onopandrey"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
		},
		Admins: NewAdminList(parseAdminIDs(os.Getenv("ADMIN_IDS"))),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.Storage.RetentionHours <= 0 {
		return nil, fmt.Errorf("RETENTION_HOURS must be positive")
	}

	return cfg, nil
}
