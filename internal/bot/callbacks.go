package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/bot/keyboards"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil || query.From == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case strings.HasPrefix(data, "add_water_"):
		return b.handleAddWaterCallback(ctx, query, chatID, data)
	case strings.HasPrefix(data, "show_stats_"):
		return b.handleShowStatsCallback(ctx, query, chatID, data)
	case strings.HasPrefix(data, "clear_stats_"):
		return b.handleClearStatsCallback(ctx, query, chatID, data)
	default:
		logger.Warn("Unknown callback data", "data", data)
		return nil
	}
}

// callbackOwner extracts the user id suffix and verifies the presser
// owns the button. Buttons carry the owner's id so a forwarded message
// cannot mutate someone else's ledger.
func callbackOwner(query *tgbotapi.CallbackQuery, data, prefix string) (int64, bool) {
	userID, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return userID, userID == query.From.ID
}

func (b *Bot) handleAddWaterCallback(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, data string) error {
	userID, ok := callbackOwner(query, data, "add_water_")
	if !ok {
		return b.send(chatID, "⚠️ Ця кнопка не для вас.")
	}

	if !b.nutrition.AddWater(ctx, userID, defaultWaterPortionML) {
		return b.sendGenericFailure(chatID)
	}

	stats := b.nutrition.DailyStats(ctx, userID)
	total := 0.0
	if stats != nil {
		total = stats.WaterML
	}
	return b.send(chatID, fmt.Sprintf("💧 Додано %d мл води. Сьогодні випито: %.0f мл.", defaultWaterPortionML, total))
}

func (b *Bot) handleShowStatsCallback(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, data string) error {
	userID, ok := callbackOwner(query, data, "show_stats_")
	if !ok {
		return b.send(chatID, "⚠️ Ця кнопка не для вас.")
	}

	stats := b.nutrition.DailyStats(ctx, userID)
	if stats == nil {
		return b.sendWithKeyboard(chatID, "📊 За сьогодні ще немає записів.", keyboards.Stats(userID))
	}
	return b.sendWithKeyboard(chatID, renderDailyStats(stats), keyboards.Stats(userID))
}

func (b *Bot) handleClearStatsCallback(ctx context.Context, query *tgbotapi.CallbackQuery, chatID int64, data string) error {
	userID, ok := callbackOwner(query, data, "clear_stats_")
	if !ok {
		return b.send(chatID, "⚠️ Ця кнопка не для вас.")
	}

	if !b.nutrition.ClearHistory(ctx, userID) {
		return b.sendGenericFailure(chatID)
	}
	logger.Info("Nutrition history cleared", "user_id", userID)
	return b.send(chatID, "🗑️ Всю статистику харчування видалено.")
}
