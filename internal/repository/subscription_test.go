package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriihrytsai/nutrition-bot/internal/database"
)

func newTestDB(t *testing.T) *database.SQLiteDB {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// insertSubscription writes a raw row with explicit dates, bypassing
// Activate, so tests can build expired states.
func insertSubscription(t *testing.T, db *database.SQLiteDB, userID int64, start, end time.Time) {
	t.Helper()
	err := db.WithConn(context.Background(), func(ctx context.Context, conn *sql.DB) error {
		_, err := conn.ExecContext(ctx, `
			INSERT INTO subscriptions (user_id, start_date, end_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			userID, database.FormatTime(start), database.FormatTime(end),
			database.FormatTime(start), database.FormatTime(start))
		return err
	})
	require.NoError(t, err)
}

func TestActivateCreatesThirtyDayWindow(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	require.True(t, repo.Activate(ctx, 100, 1))

	status := repo.Status(ctx, 100)
	require.True(t, status.HasSubscription)
	assert.True(t, status.IsActive)

	expected := time.Now().Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, status.EndDate, time.Minute)
	assert.Equal(t, 29, status.DaysLeft) // floor of just-under-30 days
}

func TestActivateStacksWhileActive(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	require.True(t, repo.Activate(ctx, 100, 1))
	firstEnd := repo.Status(ctx, 100).EndDate

	require.True(t, repo.Activate(ctx, 100, 2))
	status := repo.Status(ctx, 100)

	assert.WithinDuration(t, firstEnd.Add(60*24*time.Hour), status.EndDate, time.Second)
	assert.Equal(t, 89, status.DaysLeft)
}

func TestActivateRestartsAfterExpiry(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	insertSubscription(t, db, 100,
		time.Now().Add(-60*24*time.Hour),
		time.Now().Add(-30*24*time.Hour))

	require.True(t, repo.Activate(ctx, 100, 1))
	status := repo.Status(ctx, 100)

	// Fresh window from now, not stacked on the stale end date.
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), status.EndDate, time.Minute)
	assert.True(t, status.IsActive)
}

func TestActivateRejectsNonPositiveMonths(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	assert.False(t, repo.Activate(ctx, 100, 0))
	assert.False(t, repo.Activate(ctx, 100, -1))
	assert.False(t, repo.Status(ctx, 100).HasSubscription)
}

func TestStatusWithoutSubscription(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))

	status := repo.Status(context.Background(), 999)
	assert.False(t, status.HasSubscription)
	assert.False(t, status.IsActive)
	assert.Zero(t, status.DaysLeft)
}

func TestStatusExpiredReportsZeroDaysLeft(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	insertSubscription(t, db, 100,
		time.Now().Add(-40*24*time.Hour),
		time.Now().Add(-10*24*time.Hour))

	status := repo.Status(context.Background(), 100)
	require.True(t, status.HasSubscription)
	assert.False(t, status.IsActive)
	assert.Equal(t, 0, status.DaysLeft)
}

func TestRevokeReportsExistence(t *testing.T) {
	repo := NewSubscriptionRepository(newTestDB(t))
	ctx := context.Background()

	assert.False(t, repo.Revoke(ctx, 100), "nothing to revoke yet")

	require.True(t, repo.Activate(ctx, 100, 1))
	assert.True(t, repo.Revoke(ctx, 100))
	assert.False(t, repo.Status(ctx, 100).HasSubscription)
	assert.False(t, repo.Revoke(ctx, 100), "second revoke finds nothing")
}

func TestSweepExpiredRemovesOnlyExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	require.True(t, repo.Activate(ctx, 1, 1))
	insertSubscription(t, db, 2, time.Now().Add(-60*24*time.Hour), time.Now().Add(-1*time.Hour))
	insertSubscription(t, db, 3, time.Now().Add(-90*24*time.Hour), time.Now().Add(-30*24*time.Hour))

	assert.Equal(t, 2, repo.SweepExpired(ctx))
	assert.True(t, repo.Status(ctx, 1).HasSubscription)
	assert.False(t, repo.Status(ctx, 2).HasSubscription)

	assert.Equal(t, 0, repo.SweepExpired(ctx), "second sweep finds nothing")
}

func TestListAllOrdersByEndDateDesc(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	now := time.Now()
	insertSubscription(t, db, 1, now, now.Add(10*24*time.Hour))
	insertSubscription(t, db, 2, now, now.Add(90*24*time.Hour))
	insertSubscription(t, db, 3, now.Add(-60*24*time.Hour), now.Add(-30*24*time.Hour))

	infos := repo.ListAll(context.Background())
	require.Len(t, infos, 3)
	assert.Equal(t, int64(2), infos[0].UserID)
	assert.Equal(t, int64(1), infos[1].UserID)
	assert.Equal(t, int64(3), infos[2].UserID)
	assert.False(t, infos[2].IsActive)
	assert.Equal(t, 0, infos[2].DaysLeft)
}

func TestSubscriptionOpsReportFailureWhenStorageClosed(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	require.True(t, repo.Activate(ctx, 100, 1))
	require.NoError(t, db.Close())

	// Storage failures surface as zero results, never as panics.
	assert.False(t, repo.Activate(ctx, 100, 1))
	assert.False(t, repo.Status(ctx, 100).HasSubscription)
	assert.False(t, repo.Revoke(ctx, 100))
	assert.Zero(t, repo.SweepExpired(ctx))
	assert.Nil(t, repo.ListAll(ctx))
}

func TestStatsCountsBuckets(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubscriptionRepository(db)

	// User 1 long active, user 2 expiring soon, user 3 expired, user 4
	// active with under a day left (not counted as expiring soon).
	now := time.Now()
	insertSubscription(t, db, 1, now, now.Add(90*24*time.Hour))
	insertSubscription(t, db, 2, now, now.Add(3*24*time.Hour))
	insertSubscription(t, db, 3, now, now.Add(-1*24*time.Hour))
	insertSubscription(t, db, 4, now, now.Add(12*time.Hour))

	stats := repo.Stats(context.Background())
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, 1, stats.ExpiringSoon)
}
