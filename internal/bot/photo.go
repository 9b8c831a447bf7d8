package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/andriihrytsai/nutrition-bot/internal/bot/keyboards"
	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	decision := b.entitlements.CanUseAnalysis(ctx, userID)
	if !decision.Allowed {
		text := "⛔ Безкоштовні аналізи вичерпано.\n\n" + b.paymentText
		return b.send(chatID, text)
	}

	if err := b.send(chatID, "🔍 Аналізую фото..."); err != nil {
		logger.Warn("Failed to send progress message", "error", err)
	}

	imageData, err := b.downloadPhoto(message)
	if err != nil {
		logger.Error("Failed to download photo", "user_id", userID, "error", err)
		return b.sendGenericFailure(chatID)
	}

	data, err := b.nutrition.AnalyzeAndRecord(ctx, userID, imageData)
	if err != nil {
		logger.Error("Food analysis failed", "user_id", userID, "error", err)
		return b.send(chatID, "❌ Не вдалося розпізнати страву. Спробуйте інше фото.")
	}

	// The trial is charged only after a successful analysis.
	switch decision.Reason {
	case domain.ReasonFreeTrial:
		b.entitlements.ConsumeTrial(userID)
	case domain.ReasonSubscription:
		b.entitlements.RecordUse(userID)
	}

	text := renderAnalysis(data)
	if decision.Reason == domain.ReasonFreeTrial {
		remaining := decision.RemainingTrials - 1
		if remaining < 0 {
			remaining = 0
		}
		text += fmt.Sprintf("\n\n🎁 Безкоштовних аналізів залишилось: %d", remaining)
	}

	return b.sendWithKeyboard(chatID, text, keyboards.AfterAnalysis(userID))
}

// downloadPhoto fetches the largest available size of the photo.
func (b *Bot) downloadPhoto(message *tgbotapi.Message) ([]byte, error) {
	photo := message.Photo[len(message.Photo)-1]

	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: photo.FileID})
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	resp, err := http.Get(file.Link(b.token))
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected download status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func renderAnalysis(data *domain.NutritionData) string {
	return fmt.Sprintf(
		"🍽 %s\n\n"+
			"⚖️ Вага: %.0f г\n"+
			"🔥 Калорії: %.0f ккал\n"+
			"🥩 Білки: %.1f г\n"+
			"🧈 Жири: %.1f г\n"+
			"🍞 Вуглеводи: %.1f г",
		data.DishName, data.DishWeight, data.Calories,
		data.Protein, data.Fat, data.Carbs)
}
