package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/bot/state"
	"github.com/andriihrytsai/nutrition-bot/internal/config"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
	"github.com/andriihrytsai/nutrition-bot/internal/services"
)

const defaultWaterPortionML = 250

// telegramAPI is the part of the Telegram client the handlers use.
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFile(config tgbotapi.FileConfig) (tgbotapi.File, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type Bot struct {
	api            telegramAPI
	token          string
	admins         *config.AdminList
	paymentText    string
	retentionHours int
	dbPath         string
	entitlements   *services.EntitlementService
	subscriptions  *services.SubscriptionService
	nutrition      *services.NutritionService
	states         *state.Manager
}

func NewBot(cfg *config.Config, entitlements *services.EntitlementService, subscriptions *services.SubscriptionService, nutrition *services.NutritionService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Infof("Bot authorized on account %s", api.Self.UserName)
	return &Bot{
		api:            api,
		token:          cfg.TelegramToken,
		admins:         cfg.Admins,
		paymentText:    cfg.Access.PaymentText,
		retentionHours: cfg.Storage.RetentionHours,
		dbPath:         cfg.Storage.DBPath,
		entitlements:   entitlements,
		subscriptions:  subscriptions,
		nutrition:      nutrition,
		states:         state.NewManager(),
	}, nil
}

// Start runs the long-poll loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates...")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down...")
			return ctx.Err()
		case update := <-updates:
			if err := b.handleUpdate(ctx, update); err != nil {
				logger.Error("Error handling update", "error", err)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil && update.CallbackQuery == nil {
		return nil
	}

	if update.CallbackQuery != nil {
		// Answer the callback query to remove the loading state.
		callback := tgbotapi.NewCallback(update.CallbackQuery.ID, "")
		if _, err := b.api.Request(callback); err != nil {
			logger.Warn("Failed to answer callback query", "error", err)
		}
		return b.handleCallbackQuery(ctx, update.CallbackQuery)
	}

	message := update.Message
	if message.From == nil {
		return nil
	}

	// First touch creates the profile.
	b.entitlements.Profile(message.From.ID)

	if message.IsCommand() {
		if strings.HasPrefix(message.Command(), "admin_") || message.Command() == "cleanup_stats" {
			return b.handleAdminCommand(ctx, message)
		}
		return b.handleCommand(ctx, message)
	}

	if message.Photo != nil {
		return b.handlePhoto(ctx, message)
	}

	if message.Text != "" {
		return b.handleText(ctx, message)
	}

	return nil
}

func (b *Bot) send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	_, err := b.api.Send(msg)
	return err
}

// sendGenericFailure renders the short "try again" message. Internal
// error detail never reaches the end user.
func (b *Bot) sendGenericFailure(chatID int64) error {
	return b.send(chatID, "❌ Сталася помилка. Спробуйте ще раз за кілька хвилин.")
}
