package domain

import (
	"context"
)

// SubscriptionRepository manages paid access windows. Operations report
// success as values and never panic; storage failures are logged inside
// the store and surface as zero results.
type SubscriptionRepository interface {
	Activate(ctx context.Context, userID int64, months int) bool
	Status(ctx context.Context, userID int64) SubscriptionStatus
	Revoke(ctx context.Context, userID int64) bool
	SweepExpired(ctx context.Context) int
	ListAll(ctx context.Context) []SubscriptionInfo
	Stats(ctx context.Context) SubscriptionStats
}

// LedgerRepository is the append-only nutrition/water event log
type LedgerRepository interface {
	Append(ctx context.Context, event FoodAnalysis) bool
	AddWater(ctx context.Context, userID int64, waterML float64) bool
	DailyStats(ctx context.Context, userID int64) *DailyStats
	WindowedStats(ctx context.Context, userID int64, hours int) *DetailedStats
	ClearHistory(ctx context.Context, userID int64) bool
	SweepOlderThan(ctx context.Context, hours int) SweepResult
}

// ProfileRepository is the flat-file user profile store. Get creates the
// record on first touch; records are never deleted.
type ProfileRepository interface {
	Get(userID int64) *UserProfile
	Upsert(userID int64, mutate func(*UserProfile)) *UserProfile
	All() []*UserProfile
}
