package services

import (
	"context"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

// EntitlementService decides whether a user may run the paid analysis,
// combining the authoritative subscription store with the per-user
// trial counter. The two stores have independent consistency domains;
// a decision tolerates one being stale relative to the other.
type EntitlementService struct {
	subscriptions domain.SubscriptionRepository
	profiles      domain.ProfileRepository
}

func NewEntitlementService(subscriptions domain.SubscriptionRepository, profiles domain.ProfileRepository) *EntitlementService {
	return &EntitlementService{
		subscriptions: subscriptions,
		profiles:      profiles,
	}
}

// CanUseAnalysis checks the subscription first, so a subscribed user
// never burns a trial, then falls back to remaining free trials.
func (s *EntitlementService) CanUseAnalysis(ctx context.Context, userID int64) domain.AccessDecision {
	status := s.subscriptions.Status(ctx, userID)
	if status.HasSubscription && status.IsActive {
		expires := status.EndDate
		return domain.AccessDecision{
			Allowed:   true,
			Reason:    domain.ReasonSubscription,
			ExpiresAt: &expires,
		}
	}

	profile := s.profiles.Get(userID)
	if remaining := profile.RemainingTrials(); remaining > 0 {
		return domain.AccessDecision{
			Allowed:         true,
			Reason:          domain.ReasonFreeTrial,
			RemainingTrials: remaining,
		}
	}

	return domain.AccessDecision{Reason: domain.ReasonNoAccess}
}

// ConsumeTrial burns one free trial and bumps the lifetime counter. The
// caller invokes it only after a successful analysis that was granted
// with ReasonFreeTrial; it is never consumed automatically.
func (s *EntitlementService) ConsumeTrial(userID int64) {
	p := s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.FreeTrialsUsed++
		p.TotalUses++
	})
	logger.Info("Free trial consumed", "user_id", userID, "used", p.FreeTrialsUsed, "max", p.MaxFreeTrials)
}

// RecordUse bumps the lifetime usage counter without touching trials,
// for analyses covered by a subscription.
func (s *EntitlementService) RecordUse(userID int64) {
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.TotalUses++
	})
}

// ResetTrials returns the user's free trial counter to zero. Admin
// tooling only.
func (s *EntitlementService) ResetTrials(userID int64) {
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.FreeTrialsUsed = 0
	})
	logger.Info("Free trials reset", "user_id", userID)
}

// AddTrials raises the user's trial allowance. Admin tooling only.
func (s *EntitlementService) AddTrials(userID int64, count int) {
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.MaxFreeTrials += count
	})
	logger.Info("Free trials added", "user_id", userID, "count", count)
}

// Profile returns the user's profile for display.
func (s *EntitlementService) Profile(userID int64) *domain.UserProfile {
	return s.profiles.Get(userID)
}

// AllProfiles returns every known profile, for admin listings.
func (s *EntitlementService) AllProfiles() []*domain.UserProfile {
	return s.profiles.All()
}

// SetPreferredMode stores the user's preferred analysis mode.
func (s *EntitlementService) SetPreferredMode(userID int64, mode string) {
	s.profiles.Upsert(userID, func(p *domain.UserProfile) {
		p.PreferredMode = mode
	})
}
