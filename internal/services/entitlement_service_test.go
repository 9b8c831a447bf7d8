package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/repository"
)

// stubSubscriptions returns a fixed status; the entitlement decision is
// what's under test, not the store.
type stubSubscriptions struct {
	status domain.SubscriptionStatus
}

func (s *stubSubscriptions) Activate(ctx context.Context, userID int64, months int) bool {
	return true
}

func (s *stubSubscriptions) Status(ctx context.Context, userID int64) domain.SubscriptionStatus {
	return s.status
}

func (s *stubSubscriptions) Revoke(ctx context.Context, userID int64) bool { return true }

func (s *stubSubscriptions) SweepExpired(ctx context.Context) int { return 0 }

func (s *stubSubscriptions) ListAll(ctx context.Context) []domain.SubscriptionInfo { return nil }

func (s *stubSubscriptions) Stats(ctx context.Context) domain.SubscriptionStats {
	return domain.SubscriptionStats{}
}

func newTestProfiles(t *testing.T, maxTrials int) domain.ProfileRepository {
	t.Helper()
	return repository.NewProfileRepository(filepath.Join(t.TempDir(), "users.json"), maxTrials)
}

func TestCanUseAnalysisSubscriptionFirst(t *testing.T) {
	end := time.Now().Add(10 * 24 * time.Hour)
	subs := &stubSubscriptions{status: domain.SubscriptionStatus{
		HasSubscription: true,
		IsActive:        true,
		EndDate:         end,
		DaysLeft:        9,
	}}
	profiles := newTestProfiles(t, 2)
	svc := NewEntitlementService(subs, profiles)

	// Even with trials exhausted, the subscription grants access.
	profiles.Upsert(100, func(p *domain.UserProfile) { p.FreeTrialsUsed = 2 })

	decision := svc.CanUseAnalysis(context.Background(), 100)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.ReasonSubscription, decision.Reason)
	require.NotNil(t, decision.ExpiresAt)
	assert.WithinDuration(t, end, *decision.ExpiresAt, time.Second)
}

func TestCanUseAnalysisFallsBackToTrials(t *testing.T) {
	subs := &stubSubscriptions{}
	svc := NewEntitlementService(subs, newTestProfiles(t, 2))

	decision := svc.CanUseAnalysis(context.Background(), 100)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.ReasonFreeTrial, decision.Reason)
	assert.Equal(t, 2, decision.RemainingTrials)
}

func TestCanUseAnalysisExpiredSubscriptionBurnsTrials(t *testing.T) {
	subs := &stubSubscriptions{status: domain.SubscriptionStatus{
		HasSubscription: true,
		IsActive:        false,
		EndDate:         time.Now().Add(-time.Hour),
	}}
	svc := NewEntitlementService(subs, newTestProfiles(t, 2))

	decision := svc.CanUseAnalysis(context.Background(), 100)
	assert.True(t, decision.Allowed)
	assert.Equal(t, domain.ReasonFreeTrial, decision.Reason, "an expired subscription does not grant access")
}

func TestCanUseAnalysisDeniedWhenExhausted(t *testing.T) {
	profiles := newTestProfiles(t, 2)
	svc := NewEntitlementService(&stubSubscriptions{}, profiles)
	ctx := context.Background()

	svc.ConsumeTrial(100)
	svc.ConsumeTrial(100)

	decision := svc.CanUseAnalysis(ctx, 100)
	assert.False(t, decision.Allowed)
	assert.Equal(t, domain.ReasonNoAccess, decision.Reason)
	assert.Zero(t, decision.RemainingTrials)
}

func TestConsumeTrialCountsLifetimeUses(t *testing.T) {
	profiles := newTestProfiles(t, 2)
	svc := NewEntitlementService(&stubSubscriptions{}, profiles)

	svc.ConsumeTrial(100)
	svc.RecordUse(100)

	p := svc.Profile(100)
	assert.Equal(t, 1, p.FreeTrialsUsed)
	assert.Equal(t, 2, p.TotalUses)
}

func TestResetAndAddTrials(t *testing.T) {
	profiles := newTestProfiles(t, 2)
	svc := NewEntitlementService(&stubSubscriptions{}, profiles)
	ctx := context.Background()

	svc.ConsumeTrial(100)
	svc.ConsumeTrial(100)
	require.False(t, svc.CanUseAnalysis(ctx, 100).Allowed)

	svc.ResetTrials(100)
	decision := svc.CanUseAnalysis(ctx, 100)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 2, decision.RemainingTrials)

	svc.AddTrials(100, 3)
	assert.Equal(t, 5, svc.Profile(100).MaxFreeTrials)
}
