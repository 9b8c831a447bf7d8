package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/bot/state"
)

const maxWaterPortionML = 5000

func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID

	if b.states.GetUserState(userID) == state.WaitingForWater {
		return b.handleWaterInput(ctx, message)
	}

	return b.send(message.Chat.ID,
		"📸 Надішліть фото страви для аналізу або скористайтесь /help.")
}

func (b *Bot) handleWaterInput(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	input := strings.TrimSpace(message.Text)

	ml, err := strconv.ParseFloat(strings.ReplaceAll(input, ",", "."), 64)
	if err != nil || ml <= 0 {
		return b.send(message.Chat.ID, "⚠️ Надішліть додатне число мілілітрів, наприклад: 250")
	}
	if ml > maxWaterPortionML {
		return b.send(message.Chat.ID, fmt.Sprintf("⚠️ Забагато за один раз. Максимум %d мл.", maxWaterPortionML))
	}

	b.states.ClearUserState(userID)

	if !b.nutrition.AddWater(ctx, userID, ml) {
		return b.sendGenericFailure(message.Chat.ID)
	}

	stats := b.nutrition.DailyStats(ctx, userID)
	total := ml
	if stats != nil {
		total = stats.WaterML
	}
	return b.send(message.Chat.ID, fmt.Sprintf("💧 Записано %.0f мл. Сьогодні випито: %.0f мл.", ml, total))
}
