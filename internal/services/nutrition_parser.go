package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
)

// ParseNutrition extracts numeric nutrition fields from the free-text
// analysis. It is a stateless pure function: best-effort regex
// extraction followed by heuristic back-fill for macros the model left
// out. Missing values come back as zeros, never as an error.
func ParseNutrition(analysisText string) domain.NutritionData {
	data := domain.NutritionData{
		DishName: parseDishName(analysisText),
		Calories: firstNumber(analysisText, caloriePatterns),
		Protein:  firstNumber(analysisText, proteinPatterns),
		Fat:      firstNumber(analysisText, fatPatterns),
		Carbs:    firstNumber(analysisText, carbsPatterns),
	}

	data.DishWeight = firstNumber(analysisText, weightPatterns)
	if data.DishWeight == 0 {
		if data.Calories > 0 {
			// Rough rule of thumb: about 1.8 g of food per kcal.
			data.DishWeight = data.Calories * 1.8
		} else {
			data.DishWeight = 200
		}
	}

	backfillMacros(&data)
	return data
}

var (
	dishNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)назва страви[:\s]+(.+)`),
		regexp.MustCompile(`(?i)(?:це|this is)\s+(.+?)(?:\n|\.|ккал|calories)`),
		regexp.MustCompile(`(?m)^(.+?)(?:\n|\.|$)`),
	}
	weightPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)вага[:\s]*(\d+(?:\.\d+)?)\s*(?:г|грам|грамів)`),
		regexp.MustCompile(`(?i)weight[:\s]*(\d+(?:\.\d+)?)\s*(?:g|gram)`),
		regexp.MustCompile(`(?i)приблизно\s*(\d+(?:\.\d+)?)\s*(?:г|грам)`),
		regexp.MustCompile(`(?i)approximately\s*(\d+(?:\.\d+)?)\s*(?:g|gram)`),
	}
	caloriePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)калорі[ії][:\s]*(\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ккал|калорій|kcal|calories)`),
		regexp.MustCompile(`(?i)calories[:\s]*(\d+(?:\.\d+)?)`),
	}
	proteinPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)білк[иа][:\s]*(\d+(?:\.\d+)?)\s*(?:г|грам|грамів)`),
		regexp.MustCompile(`(?i)protein[:\s]*(\d+(?:\.\d+)?)\s*(?:g|gram)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:г|g)\s*(?:білк[иа]|protein)`),
	}
	fatPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)жир[иа][:\s]*(\d+(?:\.\d+)?)\s*(?:г|грам|грамів)`),
		regexp.MustCompile(`(?i)fat[:\s]*(\d+(?:\.\d+)?)\s*(?:g|gram)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:г|g)\s*(?:жир[иа]|fat)`),
	}
	carbsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)вуглевод[иа][:\s]*(\d+(?:\.\d+)?)\s*(?:г|грам|грамів)`),
		regexp.MustCompile(`(?i)carbs?[:\s]*(\d+(?:\.\d+)?)\s*(?:g|gram)`),
		regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:г|g)\s*(?:вуглевод[иа]|carbs?)`),
	}
)

func parseDishName(text string) string {
	for _, re := range dishNamePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			name := strings.TrimSpace(m[1])
			if len([]rune(name)) > 3 {
				return name
			}
		}
	}
	return ""
}

func firstNumber(text string, patterns []*regexp.Regexp) float64 {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	return 0
}

// backfillMacros estimates macros the model left at zero from the
// calorie total (typical 20/25/55 split of protein/fat/carbs), then
// rebalances when the macro-derived calorie sum is off by more than 30%.
// Dish-name keywords set floors for foods with a known profile.
func backfillMacros(data *domain.NutritionData) {
	if data.Calories > 0 {
		if data.Protein == 0 {
			data.Protein = round1(data.Calories * 0.2 / 4) // 4 kcal per gram
		}
		if data.Fat == 0 {
			data.Fat = round1(data.Calories * 0.25 / 9) // 9 kcal per gram
		}
		if data.Carbs == 0 {
			data.Carbs = round1(data.Calories * 0.55 / 4)
		}

		calculated := data.Protein*4 + data.Fat*9 + data.Carbs*4
		if calculated > 0 && math.Abs(calculated-data.Calories) > data.Calories*0.3 {
			ratio := data.Calories / calculated
			data.Protein = round1(data.Protein * ratio)
			data.Fat = round1(data.Fat * ratio)
			data.Carbs = round1(data.Carbs * ratio)
		}
	}

	name := strings.ToLower(data.DishName)
	switch {
	case strings.Contains(name, "рис") || strings.Contains(name, "rice"):
		if data.Carbs < 10 {
			data.Carbs = 30
		}
	case strings.Contains(name, "яйц") || strings.Contains(name, "egg"):
		if data.Protein < 5 {
			data.Protein = 12
		}
	case strings.Contains(name, "овоч") || strings.Contains(name, "vegetable"):
		if data.Carbs < 5 {
			data.Carbs = 8
		}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
