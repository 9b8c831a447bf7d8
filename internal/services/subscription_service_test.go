package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriihrytsai/nutrition-bot/internal/database"
	"github.com/andriihrytsai/nutrition-bot/internal/repository"
)

func newSubscriptionService(t *testing.T) (*SubscriptionService, *EntitlementService) {
	t.Helper()
	dir := t.TempDir()
	db, err := database.NewSQLiteDB(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	subs := repository.NewSubscriptionRepository(db)
	profiles := repository.NewProfileRepository(filepath.Join(dir, "users.json"), 2)
	return NewSubscriptionService(subs, profiles), NewEntitlementService(subs, profiles)
}

func TestActivateSyncsProfileShadow(t *testing.T) {
	svc, entitlements := newSubscriptionService(t)
	ctx := context.Background()

	require.True(t, svc.Activate(ctx, 100, 1))

	p := entitlements.Profile(100)
	assert.True(t, p.SubscriptionActive)
	require.NotNil(t, p.SubscriptionExpires)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), *p.SubscriptionExpires, time.Minute)
}

func TestRevokeClearsProfileShadow(t *testing.T) {
	svc, entitlements := newSubscriptionService(t)
	ctx := context.Background()

	require.True(t, svc.Activate(ctx, 100, 1))
	assert.True(t, svc.Revoke(ctx, 100))

	p := entitlements.Profile(100)
	assert.False(t, p.SubscriptionActive)
	assert.Nil(t, p.SubscriptionExpires)

	assert.False(t, svc.Revoke(ctx, 100), "nothing left to revoke")
}

func TestSubscriptionGrantsAnalysisAccess(t *testing.T) {
	svc, entitlements := newSubscriptionService(t)
	ctx := context.Background()

	// Exhaust the trials first.
	entitlements.ConsumeTrial(100)
	entitlements.ConsumeTrial(100)
	require.False(t, entitlements.CanUseAnalysis(ctx, 100).Allowed)

	require.True(t, svc.Activate(ctx, 100, 1))
	decision := entitlements.CanUseAnalysis(ctx, 100)
	assert.True(t, decision.Allowed)
}
