package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

const adminWindowHours = 24

func (b *Bot) handleAdminCommand(ctx context.Context, message *tgbotapi.Message) error {
	if !b.admins.IsAdmin(message.From.ID) {
		return b.send(message.Chat.ID, "⛔ Ця команда доступна лише адміністраторам.")
	}

	switch message.Command() {
	case "admin_help":
		return b.handleAdminHelp(message)
	case "admin_subscribe":
		return b.handleAdminSubscribe(ctx, message)
	case "admin_extend":
		// Same stacking semantics as subscribe, kept as an alias so the
		// admin's intent reads correctly in chat history.
		return b.handleAdminSubscribe(ctx, message)
	case "admin_revoke":
		return b.handleAdminRevoke(ctx, message)
	case "admin_user":
		return b.handleAdminUser(ctx, message)
	case "admin_users":
		return b.handleAdminUsers(message)
	case "admin_user_stats":
		return b.handleAdminUserStats(ctx, message)
	case "admin_stats":
		return b.handleAdminStats(ctx, message)
	case "admin_subscriptions":
		return b.handleAdminSubscriptions(ctx, message)
	case "admin_reset_trials":
		return b.handleAdminResetTrials(message)
	case "admin_add_trials":
		return b.handleAdminAddTrials(message)
	case "admin_add_admin":
		return b.handleAdminAddAdmin(message)
	case "admin_remove_admin":
		return b.handleAdminRemoveAdmin(message)
	case "admin_list_admins":
		return b.handleAdminListAdmins(message)
	case "admin_cleanup":
		return b.handleAdminCleanup(ctx, message)
	case "admin_backup":
		return b.handleAdminBackup(message)
	case "cleanup_stats":
		return b.handleCleanupStats(ctx, message)
	default:
		return b.send(message.Chat.ID, "Невідома адмін-команда. Див. /admin_help")
	}
}

func (b *Bot) handleAdminHelp(message *tgbotapi.Message) error {
	text := "🔧 Адмін-команди:\n\n" +
		"/admin_subscribe <user_id> <months> — активувати/продовжити підписку\n" +
		"/admin_extend <user_id> <months> — продовжити підписку\n" +
		"/admin_revoke <user_id> — скасувати підписку\n" +
		"/admin_user <user_id> — картка користувача\n" +
		"/admin_users — список користувачів\n" +
		"/admin_user_stats <user_id> — аналізи користувача за 24 год\n" +
		"/admin_stats — загальна статистика\n" +
		"/admin_subscriptions — список підписок\n" +
		"/admin_reset_trials <user_id> — скинути використані тріали\n" +
		"/admin_add_trials <user_id> <count> — додати тріали\n" +
		"/admin_add_admin <user_id> — додати адміністратора\n" +
		"/admin_remove_admin <user_id> — прибрати адміністратора\n" +
		"/admin_list_admins — список адміністраторів\n" +
		"/admin_cleanup — видалити прострочені підписки зараз\n" +
		"/admin_backup — отримати копію бази підписок\n" +
		"/cleanup_stats — очистити старі записи журналу харчування"
	return b.send(message.Chat.ID, text)
}

// parseAdminArgs splits command arguments and parses the leading user id.
func parseAdminArgs(message *tgbotapi.Message, wantArgs int) (int64, []string, error) {
	args := strings.Fields(message.CommandArguments())
	if len(args) < wantArgs {
		return 0, nil, fmt.Errorf("expected %d arguments, got %d", wantArgs, len(args))
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid user id %q", args[0])
	}
	return userID, args, nil
}

func (b *Bot) handleAdminSubscribe(ctx context.Context, message *tgbotapi.Message) error {
	userID, args, err := parseAdminArgs(message, 2)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_subscribe <user_id> <months>")
	}

	months, err := strconv.Atoi(args[1])
	if err != nil || months <= 0 {
		return b.send(message.Chat.ID, "⚠️ Кількість місяців має бути додатним числом.")
	}

	if !b.subscriptions.Activate(ctx, userID, months) {
		return b.sendGenericFailure(message.Chat.ID)
	}

	status := b.subscriptions.Status(ctx, userID)
	logger.Info("Subscription activated by admin",
		"admin_id", message.From.ID, "user_id", userID, "months", months)
	return b.send(message.Chat.ID, fmt.Sprintf(
		"✅ Підписку для %d активовано на %d міс.\nДіє до: %s (днів: %d)",
		userID, months, status.EndDate.Format("02.01.2006 15:04"), status.DaysLeft))
}

func (b *Bot) handleAdminRevoke(ctx context.Context, message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_revoke <user_id>")
	}

	if b.subscriptions.Revoke(ctx, userID) {
		logger.Info("Subscription revoked by admin", "admin_id", message.From.ID, "user_id", userID)
		return b.send(message.Chat.ID, fmt.Sprintf("✅ Підписку для %d скасовано.", userID))
	}
	return b.send(message.Chat.ID, fmt.Sprintf("ℹ️ У користувача %d немає підписки.", userID))
}

func (b *Bot) handleAdminUser(ctx context.Context, message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_user <user_id>")
	}

	profile := b.entitlements.Profile(userID)
	status := b.subscriptions.Status(ctx, userID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 Користувач %d\n\n", userID))
	sb.WriteString(fmt.Sprintf("Зареєстрований: %s\n", profile.CreatedAt.Format("02.01.2006")))
	sb.WriteString(fmt.Sprintf("Тріали: %d/%d використано\n", profile.FreeTrialsUsed, profile.MaxFreeTrials))
	sb.WriteString(fmt.Sprintf("Всього аналізів: %d\n", profile.TotalUses))
	if status.HasSubscription {
		flag := "❌ неактивна"
		if status.IsActive {
			flag = fmt.Sprintf("✅ активна, днів: %d", status.DaysLeft)
		}
		sb.WriteString(fmt.Sprintf("Підписка: %s, до %s", flag, status.EndDate.Format("02.01.2006")))
	} else {
		sb.WriteString("Підписка: немає")
	}
	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handleAdminUsers(message *tgbotapi.Message) error {
	profiles := b.entitlements.AllProfiles()
	if len(profiles) == 0 {
		return b.send(message.Chat.ID, "Користувачів ще немає.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👥 Користувачів: %d\n\n", len(profiles)))
	for _, p := range profiles {
		sub := "—"
		if p.SubscriptionActive {
			sub = "✅"
		}
		sb.WriteString(fmt.Sprintf("%d | тріали %d/%d | аналізів %d | підписка %s\n",
			p.UserID, p.FreeTrialsUsed, p.MaxFreeTrials, p.TotalUses, sub))
	}
	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handleAdminUserStats(ctx context.Context, message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_user_stats <user_id>")
	}

	stats := b.nutrition.WindowedStats(ctx, userID, adminWindowHours)
	if stats == nil || stats.TotalAnalyses == 0 && stats.TotalWaterML == 0 {
		return b.send(message.Chat.ID, fmt.Sprintf("У користувача %d немає записів за останні %d год.", userID, adminWindowHours))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 Користувач %d, останні %d год:\n\n", userID, adminWindowHours))
	sb.WriteString(fmt.Sprintf("Аналізів: %d\n", stats.TotalAnalyses))
	sb.WriteString(fmt.Sprintf("Вага: %.0f г\n", stats.TotalWeight))
	sb.WriteString(fmt.Sprintf("Калорії: %.0f ккал (середнє %.0f)\n", stats.TotalCalories, stats.AverageCalories))
	sb.WriteString(fmt.Sprintf("БЖВ: %.1f / %.1f / %.1f г\n", stats.TotalProtein, stats.TotalFat, stats.TotalCarbs))
	sb.WriteString(fmt.Sprintf("Вода: %.0f мл\n", stats.TotalWaterML))
	for _, a := range stats.Analyses {
		if a.IsDish() {
			sb.WriteString(fmt.Sprintf("\n• %s — %.0f ккал (%s)",
				a.DishName, a.Calories, a.CreatedAt.Format("15:04")))
		}
	}
	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handleAdminStats(ctx context.Context, message *tgbotapi.Message) error {
	profiles := b.entitlements.AllProfiles()
	stats := b.subscriptions.Stats(ctx)

	totalUses := 0
	trialsUsed := 0
	for _, p := range profiles {
		totalUses += p.TotalUses
		trialsUsed += p.FreeTrialsUsed
	}

	return b.send(message.Chat.ID, fmt.Sprintf(
		"📈 Загальна статистика:\n\n"+
			"Користувачів: %d\n"+
			"Аналізів зроблено: %d\n"+
			"Тріалів використано: %d\n\n"+
			"Підписок всього: %d\n"+
			"Активних: %d\n"+
			"Закінчуються (≤7 днів): %d\n"+
			"Прострочених: %d",
		len(profiles), totalUses, trialsUsed,
		stats.Total, stats.Active, stats.ExpiringSoon, stats.Expired))
}

func (b *Bot) handleAdminSubscriptions(ctx context.Context, message *tgbotapi.Message) error {
	subs := b.subscriptions.ListAll(ctx)
	if len(subs) == 0 {
		return b.send(message.Chat.ID, "Підписок немає.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Підписки (%d):\n\n", len(subs)))
	for _, s := range subs {
		flag := "❌"
		if s.IsActive {
			flag = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %d — до %s (днів: %d)\n",
			flag, s.UserID, s.EndDate.Format("02.01.2006"), s.DaysLeft))
	}
	return b.send(message.Chat.ID, sb.String())
}

func (b *Bot) handleAdminResetTrials(message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_reset_trials <user_id>")
	}

	b.entitlements.ResetTrials(userID)
	return b.send(message.Chat.ID, fmt.Sprintf("✅ Тріали користувача %d скинуто.", userID))
}

func (b *Bot) handleAdminAddTrials(message *tgbotapi.Message) error {
	userID, args, err := parseAdminArgs(message, 2)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_add_trials <user_id> <count>")
	}

	count, err := strconv.Atoi(args[1])
	if err != nil || count <= 0 {
		return b.send(message.Chat.ID, "⚠️ Кількість має бути додатним числом.")
	}

	b.entitlements.AddTrials(userID, count)
	profile := b.entitlements.Profile(userID)
	return b.send(message.Chat.ID, fmt.Sprintf(
		"✅ Додано %d тріалів користувачу %d. Тепер: %d/%d.",
		count, userID, profile.FreeTrialsUsed, profile.MaxFreeTrials))
}

func (b *Bot) handleAdminAddAdmin(message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_add_admin <user_id>")
	}

	b.admins.Add(userID)
	logger.Info("Admin added", "by", message.From.ID, "user_id", userID)
	return b.send(message.Chat.ID, fmt.Sprintf("✅ Користувач %d тепер адміністратор.", userID))
}

func (b *Bot) handleAdminRemoveAdmin(message *tgbotapi.Message) error {
	userID, _, err := parseAdminArgs(message, 1)
	if err != nil {
		return b.send(message.Chat.ID, "Використання: /admin_remove_admin <user_id>")
	}

	if userID == message.From.ID {
		return b.send(message.Chat.ID, "⚠️ Не можна прибрати самого себе.")
	}

	b.admins.Remove(userID)
	logger.Info("Admin removed", "by", message.From.ID, "user_id", userID)
	return b.send(message.Chat.ID, fmt.Sprintf("✅ Користувач %d більше не адміністратор.", userID))
}

func (b *Bot) handleAdminListAdmins(message *tgbotapi.Message) error {
	ids := b.admins.All()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👮 Адміністратори (%d):\n", len(ids)))
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("• %d\n", id))
	}
	return b.send(message.Chat.ID, sb.String())
}

// handleAdminCleanup runs the expired-subscription sweep immediately,
// without waiting for the scheduler.
func (b *Bot) handleAdminCleanup(ctx context.Context, message *tgbotapi.Message) error {
	removed := b.subscriptions.SweepExpired(ctx)
	stats := b.subscriptions.Stats(ctx)
	logger.Info("Subscription sweep triggered by admin", "admin_id", message.From.ID, "removed", removed)
	return b.send(message.Chat.ID, fmt.Sprintf(
		"🧹 Прострочених підписок видалено: %d\n\n"+
			"Залишилось всього: %d\n"+
			"Активних: %d\n"+
			"Закінчуються (≤7 днів): %d",
		removed, stats.Total, stats.Active, stats.ExpiringSoon))
}

// handleAdminBackup sends the subscription database file to the admin.
func (b *Bot) handleAdminBackup(message *tgbotapi.Message) error {
	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FilePath(b.dbPath))
	doc.Caption = "📦 Резервна копія бази підписок"
	if _, err := b.api.Send(doc); err != nil {
		logger.Error("Failed to send database backup", "admin_id", message.From.ID, "error", err)
		return b.sendGenericFailure(message.Chat.ID)
	}
	logger.Info("Database backup sent", "admin_id", message.From.ID)
	return nil
}

// handleCleanupStats runs the ledger retention sweep and reports the
// summary.
func (b *Bot) handleCleanupStats(ctx context.Context, message *tgbotapi.Message) error {
	result := b.nutrition.SweepOlderThan(ctx, b.retentionHours)
	return b.send(message.Chat.ID, fmt.Sprintf(
		"🧹 Очищення журналу харчування (старше %d год):\n\n"+
			"Користувачів переглянуто: %d\n"+
			"Записів видалено: %d\n"+
			"Помилок: %d",
		b.retentionHours, result.UsersScanned, result.TotalDeleted, result.ErrorCount))
}
