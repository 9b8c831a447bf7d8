package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/bot/keyboards"
	"github.com/andriihrytsai/nutrition-bot/internal/bot/state"
	"github.com/andriihrytsai/nutrition-bot/internal/domain"
)

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return b.handleStart(ctx, message)
	case "help":
		return b.handleHelp(message)
	case "status":
		return b.handleStatus(ctx, message)
	case "payment":
		return b.handlePayment(message)
	case "stats":
		return b.handleStats(ctx, message)
	case "water":
		return b.handleWater(message)
	case "mode":
		return b.handleMode(message)
	default:
		return b.send(message.Chat.ID, "Невідома команда. Використайте /help для списку команд.")
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) error {
	decision := b.entitlements.CanUseAnalysis(ctx, message.From.ID)

	text := "👋 Вітаю! Я допоможу порахувати калорії.\n\n" +
		"📸 Надішліть фото страви — я визначу назву, вагу, калорії та БЖВ.\n" +
		"💧 Командою /water можна записати випиту воду.\n" +
		"📊 Команда /stats покаже підсумок за сьогодні.\n\n"

	switch decision.Reason {
	case domain.ReasonSubscription:
		text += fmt.Sprintf("✅ У вас активна підписка до %s.", decision.ExpiresAt.Format("02.01.2006"))
	case domain.ReasonFreeTrial:
		text += fmt.Sprintf("🎁 У вас залишилось безкоштовних аналізів: %d.", decision.RemainingTrials)
	default:
		text += "⚠️ Безкоштовні аналізи вичерпано. Команда /payment підкаже, як оформити підписку."
	}

	return b.send(message.Chat.ID, text)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) error {
	text := "📖 Доступні команди:\n\n" +
		"/start — почати роботу\n" +
		"/status — стан підписки та безкоштовних аналізів\n" +
		"/stats — статистика харчування за сьогодні\n" +
		"/water — записати випиту воду\n" +
		"/payment — як оформити підписку\n" +
		"/help — це повідомлення\n\n" +
		"📸 Просто надішліть фото страви для аналізу."

	if b.admins.IsAdmin(message.From.ID) {
		text += "\n\n🔧 Для адміністраторів: /admin_help"
	}
	return b.send(message.Chat.ID, text)
}

func (b *Bot) handleStatus(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	status := b.subscriptions.Status(ctx, userID)
	profile := b.entitlements.Profile(userID)

	var sb strings.Builder
	sb.WriteString("📋 Ваш статус:\n\n")

	if status.HasSubscription && status.IsActive {
		sb.WriteString(fmt.Sprintf("✅ Підписка активна до %s (залишилось днів: %d)\n",
			status.EndDate.Format("02.01.2006"), status.DaysLeft))
	} else if status.HasSubscription {
		sb.WriteString(fmt.Sprintf("❌ Підписка закінчилась %s\n", status.EndDate.Format("02.01.2006")))
	} else {
		sb.WriteString("❌ Підписки немає\n")
	}

	sb.WriteString(fmt.Sprintf("🎁 Безкоштовних аналізів залишилось: %d з %d\n",
		profile.RemainingTrials(), profile.MaxFreeTrials))
	sb.WriteString(fmt.Sprintf("📈 Всього аналізів зроблено: %d", profile.TotalUses))

	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handlePayment(message *tgbotapi.Message) error {
	return b.send(message.Chat.ID, b.paymentText)
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	stats := b.nutrition.DailyStats(ctx, userID)
	if stats == nil {
		return b.sendWithKeyboard(message.Chat.ID,
			"📊 За сьогодні ще немає записів.\n\nНадішліть фото страви або додайте воду.",
			keyboards.Stats(userID))
	}

	text := renderDailyStats(stats)
	return b.sendWithKeyboard(message.Chat.ID, text, keyboards.Stats(userID))
}

func renderDailyStats(stats *domain.DailyStats) string {
	return fmt.Sprintf(
		"📊 Статистика за сьогодні:\n\n"+
			"🍽 Страв проаналізовано: %d\n"+
			"🔥 Калорії: %.0f ккал\n"+
			"🥩 Білки: %.1f г\n"+
			"🧈 Жири: %.1f г\n"+
			"🍞 Вуглеводи: %.1f г\n"+
			"💧 Вода: %.0f мл",
		stats.DishesCount, stats.TotalCalories, stats.TotalProtein,
		stats.TotalFat, stats.TotalCarbs, stats.WaterML)
}

func (b *Bot) handleWater(message *tgbotapi.Message) error {
	b.states.SetUserState(message.From.ID, state.WaitingForWater)
	return b.send(message.Chat.ID,
		"💧 Скільки мілілітрів води ви випили?\n\nНадішліть число, наприклад: 250")
}

func (b *Bot) handleMode(message *tgbotapi.Message) error {
	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		profile := b.entitlements.Profile(message.From.ID)
		return b.send(message.Chat.ID,
			fmt.Sprintf("⚙️ Поточний режим аналізу: %s\n\nЩоб змінити: /mode ai", profile.PreferredMode))
	}

	mode := strings.ToLower(args)
	if mode != "ai" {
		return b.send(message.Chat.ID, "⚠️ Підтримується лише режим: ai")
	}

	b.entitlements.SetPreferredMode(message.From.ID, mode)
	return b.send(message.Chat.ID, fmt.Sprintf("✅ Режим аналізу: %s", mode))
}
