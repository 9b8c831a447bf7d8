package services

import (
	"context"
	"fmt"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

// NutritionService runs the photo analysis pipeline and fronts the
// ledger: AI vision call, numeric extraction, append.
type NutritionService struct {
	ai     *AIService
	ledger domain.LedgerRepository
}

func NewNutritionService(ai *AIService, ledger domain.LedgerRepository) *NutritionService {
	return &NutritionService{
		ai:     ai,
		ledger: ledger,
	}
}

// AnalyzeAndRecord analyzes the photo, parses the numbers and appends
// the ledger row. The parsed data is returned even when the append
// fails; a failed append only logs, the user already got the analysis.
func (s *NutritionService) AnalyzeAndRecord(ctx context.Context, userID int64, imageData []byte) (*domain.NutritionData, error) {
	rawText, err := s.ai.AnalyzeFoodImage(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze food image: %w", err)
	}

	data := ParseNutrition(rawText)
	if data.Calories > 0 && data.Protein == 0 {
		logger.Warn("Analysis came back without macros", "user_id", userID, "calories", data.Calories)
	}

	ok := s.ledger.Append(ctx, domain.FoodAnalysis{
		UserID:       userID,
		AnalysisText: rawText,
		DishName:     data.DishName,
		DishWeight:   data.DishWeight,
		Calories:     data.Calories,
		Protein:      data.Protein,
		Fat:          data.Fat,
		Carbs:        data.Carbs,
	})
	if !ok {
		logger.Error("Analysis was not recorded", "user_id", userID)
	}

	return &data, nil
}

// AddWater tops up today's water intake.
func (s *NutritionService) AddWater(ctx context.Context, userID int64, waterML float64) bool {
	return s.ledger.AddWater(ctx, userID, waterML)
}

// DailyStats returns today's aggregate, nil when the day is empty.
func (s *NutritionService) DailyStats(ctx context.Context, userID int64) *domain.DailyStats {
	return s.ledger.DailyStats(ctx, userID)
}

// WindowedStats returns the rolling-window aggregate with row detail.
func (s *NutritionService) WindowedStats(ctx context.Context, userID int64, hours int) *domain.DetailedStats {
	return s.ledger.WindowedStats(ctx, userID, hours)
}

// ClearHistory wipes the user's ledger rows. Always succeeds when the
// storage is reachable, even with nothing to delete.
func (s *NutritionService) ClearHistory(ctx context.Context, userID int64) bool {
	return s.ledger.ClearHistory(ctx, userID)
}

// SweepOlderThan runs the retention sweep across all users.
func (s *NutritionService) SweepOlderThan(ctx context.Context, hours int) domain.SweepResult {
	return s.ledger.SweepOlderThan(ctx, hours)
}
