package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// AfterAnalysis creates the keyboard shown under an analysis result
func AfterAnalysis(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💧 +250 мл води", fmt.Sprintf("add_water_%d", userID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Статистика за сьогодні", fmt.Sprintf("show_stats_%d", userID)),
		),
	)
}

// Stats creates the keyboard shown under the stats message
func Stats(userID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💧 +250 мл води", fmt.Sprintf("add_water_%d", userID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Очистити ВСЮ статистику", fmt.Sprintf("clear_stats_%d", userID)),
		),
	)
}
