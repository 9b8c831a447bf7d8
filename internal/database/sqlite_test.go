package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/andriihrytsai/nutrition-bot/internal/errors"
)

func TestSchemaInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewSQLiteDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening the same file must not fail on existing tables.
	db, err = NewSQLiteDB(path)
	require.NoError(t, err)
	defer db.Close()

	err = db.WithConn(context.Background(), func(ctx context.Context, conn *sql.DB) error {
		var n int
		return conn.QueryRowContext(ctx,
			"SELECT count(*) FROM sqlite_master WHERE type='table' AND name IN ('subscriptions','food_analyses')",
		).Scan(&n)
	})
	require.NoError(t, err)
}

func TestWithConnPropagatesNonBusyErrors(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	sentinel := errors.New("boom")
	start := time.Now()
	got := db.WithConn(context.Background(), func(ctx context.Context, conn *sql.DB) error {
		return sentinel
	})
	assert.ErrorIs(t, got, sentinel)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "non-busy errors must not be retried")
}

func TestWithConnRetriesBusyThenGivesUp(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	attempts := 0
	start := time.Now()
	got := db.WithConn(context.Background(), func(ctx context.Context, conn *sql.DB) error {
		attempts++
		return errors.New("database is locked")
	})

	assert.Equal(t, 4, attempts, "initial attempt plus three retries")
	assert.True(t, apperrors.IsStorageBusy(got))
	assert.GreaterOrEqual(t, time.Since(start), 1400*time.Millisecond, "waits of 0.2s, 0.4s and 0.8s")
}

func TestWithConnRecoversAfterBusy(t *testing.T) {
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	attempts := 0
	got := db.WithConn(context.Background(), func(ctx context.Context, conn *sql.DB) error {
		attempts++
		if attempts < 3 {
			return errors.New("SQLITE_BUSY")
		}
		return nil
	})
	assert.NoError(t, got)
	assert.Equal(t, 3, attempts)
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Now()
	parsed, err := ParseTime(FormatTime(now))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(now))
}

func TestParseTimeLegacyFormats(t *testing.T) {
	// RFC 3339 with trimmed fractional zeros.
	_, err := ParseTime("2026-08-25T10:30:00.5+03:00")
	require.NoError(t, err)

	// Bare ISO 8601 without a zone offset.
	parsed, err := ParseTime("2026-08-25T10:30:00.123456")
	require.NoError(t, err)
	assert.Equal(t, time.Local, parsed.Location())
}

func TestFormatTimeOrdersLexically(t *testing.T) {
	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.Local)
	times := []time.Time{
		base.Add(1500 * time.Millisecond),
		base,
		base.Add(100 * time.Millisecond),
		base.Add(2 * time.Hour),
		base.Add(50 * time.Microsecond),
	}

	formatted := make([]string, len(times))
	for i, tm := range times {
		formatted[i] = FormatTime(tm)
	}
	sort.Strings(formatted)

	for i := 1; i < len(formatted); i++ {
		prev, err := ParseTime(formatted[i-1])
		require.NoError(t, err)
		cur, err := ParseTime(formatted[i])
		require.NoError(t, err)
		assert.False(t, cur.Before(prev), "lexical order must equal time order")
	}
}
