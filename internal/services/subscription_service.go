package services

import (
	"context"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
)

// SubscriptionService fronts the subscription store and keeps the
// denormalized shadow fields of the profile file in step with it. The
// shadow is a display cache only; the store stays authoritative and the
// two updates are not atomic.
type SubscriptionService struct {
	subscriptions domain.SubscriptionRepository
	profiles      domain.ProfileRepository
}

func NewSubscriptionService(subscriptions domain.SubscriptionRepository, profiles domain.ProfileRepository) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		profiles:      profiles,
	}
}

// Activate creates or extends the subscription and refreshes the
// profile shadow on success.
func (s *SubscriptionService) Activate(ctx context.Context, userID int64, months int) bool {
	if !s.subscriptions.Activate(ctx, userID, months) {
		return false
	}

	status := s.subscriptions.Status(ctx, userID)
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.SubscriptionActive = status.IsActive
		if status.HasSubscription {
			end := status.EndDate
			p.SubscriptionExpires = &end
		}
	})
	return true
}

// Revoke removes the subscription and clears the profile shadow.
// Reports whether a subscription existed.
func (s *SubscriptionService) Revoke(ctx context.Context, userID int64) bool {
	existed := s.subscriptions.Revoke(ctx, userID)
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.SubscriptionActive = false
		p.SubscriptionExpires = nil
	})
	return existed
}

// Status returns the computed subscription view.
func (s *SubscriptionService) Status(ctx context.Context, userID int64) domain.SubscriptionStatus {
	return s.subscriptions.Status(ctx, userID)
}

// ListAll returns every subscription for admin reporting.
func (s *SubscriptionService) ListAll(ctx context.Context) []domain.SubscriptionInfo {
	return s.subscriptions.ListAll(ctx)
}

// Stats aggregates subscription counts.
func (s *SubscriptionService) Stats(ctx context.Context) domain.SubscriptionStats {
	return s.subscriptions.Stats(ctx)
}

// SweepExpired removes expired subscriptions and returns the count.
func (s *SubscriptionService) SweepExpired(ctx context.Context) int {
	return s.subscriptions.SweepExpired(ctx)
}
