package domain

import (
	"time"
)

// WaterDishName marks ledger rows that carry only water, no food.
const WaterDishName = "Water"

// Subscription represents one paid access window per user
type Subscription struct {
	UserID    int64
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubscriptionStatus is the computed view of a user's subscription
type SubscriptionStatus struct {
	HasSubscription bool
	StartDate       time.Time
	EndDate         time.Time
	DaysLeft        int
	IsActive        bool
}

// SubscriptionInfo is a listing entry with computed fields, for admin reports
type SubscriptionInfo struct {
	Subscription
	DaysLeft int
	IsActive bool
}

// SubscriptionStats aggregates subscription counts
type SubscriptionStats struct {
	Total        int
	Active       int
	Expired      int
	ExpiringSoon int // active with 7 days or less left
}

// FoodAnalysis is one row of the nutrition ledger. Rows are immutable
// once written, except that AddWater may increment WaterML of the
// newest same-day row in place.
type FoodAnalysis struct {
	ID           int64
	UserID       int64
	AnalysisText string
	DishName     string
	DishWeight   float64 // grams
	Calories     float64
	Protein      float64 // grams
	Fat          float64 // grams
	Carbs        float64 // grams
	WaterML      float64
	CreatedAt    time.Time
}

// IsDish reports whether the row counts as a food analysis for
// aggregation. Water rows and zero-calorie rows are excluded.
func (a FoodAnalysis) IsDish() bool {
	return a.DishName != WaterDishName && a.Calories > 0
}

// DailyStats aggregates ledger rows over the current calendar day
type DailyStats struct {
	DishesCount   int
	TotalCalories float64
	TotalProtein  float64
	TotalFat      float64
	TotalCarbs    float64
	WaterML       float64
}

// DetailedStats aggregates ledger rows over a rolling window and keeps
// the individual rows for detailed display
type DetailedStats struct {
	TotalAnalyses   int
	TotalWeight     float64
	TotalCalories   float64
	TotalProtein    float64
	TotalFat        float64
	TotalCarbs      float64
	TotalWaterML    float64
	AverageCalories float64
	Analyses        []FoodAnalysis
}

// SweepResult summarizes a bulk retention sweep. Per-user failures are
// counted, never raised.
type SweepResult struct {
	UsersScanned int
	TotalDeleted int
	ErrorCount   int
}

// UserProfile is the flat-file user record. SubscriptionActive and
// SubscriptionExpires are a denormalized cache for fast display; the
// subscriptions table is authoritative.
type UserProfile struct {
	UserID              int64      `json:"user_id"`
	CreatedAt           time.Time  `json:"created_at"`
	FreeTrialsUsed      int        `json:"free_trials_used"`
	MaxFreeTrials       int        `json:"max_free_trials"`
	SubscriptionActive  bool       `json:"subscription_active"`
	SubscriptionExpires *time.Time `json:"subscription_expires,omitempty"`
	TotalUses           int        `json:"total_uses"`
	PreferredMode       string     `json:"preferred_mode"`
}

// RemainingTrials returns how many free trials the user still has.
func (p *UserProfile) RemainingTrials() int {
	left := p.MaxFreeTrials - p.FreeTrialsUsed
	if left < 0 {
		return 0
	}
	return left
}

// AccessReason explains an entitlement decision
type AccessReason string

const (
	ReasonSubscription AccessReason = "subscription"
	ReasonFreeTrial    AccessReason = "free_trial"
	ReasonNoAccess     AccessReason = "no_access"
)

// AccessDecision is the result of an entitlement check
type AccessDecision struct {
	Allowed         bool
	Reason          AccessReason
	RemainingTrials int
	ExpiresAt       *time.Time
}

// NutritionData holds numeric fields extracted from a free-text analysis
type NutritionData struct {
	DishName   string
	DishWeight float64
	Calories   float64
	Protein    float64
	Fat        float64
	Carbs      float64
}
