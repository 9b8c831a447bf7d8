package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	apperrors "github.com/andriihrytsai/nutrition-bot/internal/errors"
)

const geminiModel = "gemini-1.5-flash"

// AIService performs the vision analysis of food photos. It returns the
// raw free-text description; numeric extraction is a separate pure step
// (ParseNutrition).
type AIService struct {
	client *genai.Client
}

func NewAIService(ctx context.Context, apiKey string) (*AIService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &AIService{client: client}, nil
}

// Close releases the underlying client
func (s *AIService) Close() error {
	return s.client.Close()
}

// AnalyzeFoodImage sends the photo to the vision model and returns the
// free-text nutrition description in the strict line format the parser
// expects.
func (s *AIService) AnalyzeFoodImage(ctx context.Context, imageData []byte) (string, error) {
	model := s.client.GenerativeModel(geminiModel)

	prompt := `Проаналізуй це зображення їжі та надай точну інформацію у строго визначеному форматі:

Назва страви: [конкретна назва]
Вага: [число] г
Калорії: [число] ккал
Білки: [число] г
Жири: [число] г
Вуглеводи: [число] г

ВАЖЛИВО:
- Давай ТОЧНІ числові значення, не приблизні
- Якщо не можеш точно визначити, вказуй найбільш ймовірне значення
- Використовуй тільки числа та одиниці виміру (г, ккал)
- Не додавай зайвих слів або пояснень
- Відповідай українською мовою`

	img := genai.ImageData("jpeg", imageData)
	resp, err := model.GenerateContent(ctx, img, genai.Text(prompt))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "Gemini")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "EMPTY_RESPONSE", "Gemini returned no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", apperrors.New(apperrors.ErrorTypeExternal, "BAD_RESPONSE", "Gemini returned a non-text part")
	}

	return strings.TrimSpace(string(text)), nil
}
