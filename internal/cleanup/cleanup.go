package cleanup

import (
	"context"
	"time"

	"github.com/andriihrytsai/nutrition-bot/internal/logger"
	"github.com/andriihrytsai/nutrition-bot/internal/services"
)

// Job sweeps expired subscriptions and aged ledger rows. It is safe to
// run repeatedly: each pass reports a summary and never panics, so a
// long-running scheduler cannot be taken down by one bad pass.
type Job struct {
	subscriptions  *services.SubscriptionService
	nutrition      *services.NutritionService
	retentionHours int
}

func NewJob(subscriptions *services.SubscriptionService, nutrition *services.NutritionService, retentionHours int) *Job {
	return &Job{
		subscriptions:  subscriptions,
		nutrition:      nutrition,
		retentionHours: retentionHours,
	}
}

// Run performs one cleanup pass.
func (j *Job) Run(ctx context.Context) {
	logger.Info("Cleanup pass started")

	expired := j.subscriptions.SweepExpired(ctx)
	stats := j.subscriptions.Stats(ctx)
	logger.Info("Subscription sweep finished",
		"expired_removed", expired,
		"total", stats.Total,
		"active", stats.Active,
		"expiring_soon", stats.ExpiringSoon)

	result := j.nutrition.SweepOlderThan(ctx, j.retentionHours)
	logger.Info("Ledger retention sweep finished",
		"users", result.UsersScanned,
		"deleted", result.TotalDeleted,
		"errors", result.ErrorCount)
}

// Start runs cleanup passes on the given interval until ctx is
// cancelled. The first pass runs immediately.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	j.Run(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup scheduler stopped")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}
