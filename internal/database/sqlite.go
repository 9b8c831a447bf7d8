package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/andriihrytsai/nutrition-bot/internal/errors"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

// TimeLayout is the fixed-width timestamp format used for every stored
// timestamp. Unlike RFC3339Nano it never trims fractional zeros, so
// lexical comparison of stored strings equals time order and BETWEEN
// queries work without parsing.
const TimeLayout = "2006-01-02T15:04:05.000000000-07:00"

const (
	maxRetries  = 3
	baseBackoff = 100 * time.Millisecond
	opTimeout   = 30 * time.Second
)

// SQLiteDB wraps the embedded database file with WAL tuning, a
// process-wide write lock and bounded busy-retry. Every store operation
// goes through WithConn; nothing opens a raw connection directly.
type SQLiteDB struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

// NewSQLiteDB opens (or creates) the database file, applies the WAL
// pragmas and initializes the schema. Schema creation is idempotent and
// safe to run on every process start.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "STORAGE_UNAVAILABLE", "failed to open database")
	}

	// A single underlying connection keeps the pragmas effective for the
	// lifetime of the process and matches the single-writer model.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=10000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=30000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, apperrors.Wrap(err, apperrors.ErrorTypeDatabase, "STORAGE_UNAVAILABLE", fmt.Sprintf("failed to apply %q", pragma))
		}
	}

	s := &SQLiteDB{path: path, db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Subscription database initialized", "path", path)
	return s, nil
}

// Close closes the underlying connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

func (s *SQLiteDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subscriptions (
		user_id INTEGER PRIMARY KEY,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS food_analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		analysis_text TEXT NOT NULL,
		dish_name TEXT DEFAULT '',
		dish_weight REAL DEFAULT 0,
		calories REAL DEFAULT 0,
		protein REAL DEFAULT 0,
		fat REAL DEFAULT 0,
		carbs REAL DEFAULT 0,
		water_ml REAL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_end_date ON subscriptions(end_date);
	CREATE INDEX IF NOT EXISTS idx_user_id ON subscriptions(user_id);
	CREATE INDEX IF NOT EXISTS idx_food_user_date ON food_analyses(user_id, created_at);
	`

	return s.WithConn(context.Background(), func(ctx context.Context, db *sql.DB) error {
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		return nil
	})
}

// WithConn runs op while holding the process-wide write lock. A
// busy/locked failure is retried up to 3 times with delays of 0.2s,
// 0.4s and 0.8s; after the final attempt ErrStorageBusy is returned.
// Any other error propagates immediately. The operation is bounded by a
// 30 second timeout.
func (s *SQLiteDB) WithConn(ctx context.Context, op func(ctx context.Context, db *sql.DB) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for retry := 0; ; retry++ {
		err := op(opCtx, s.db)
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}
		if retry >= maxRetries {
			logger.Error("Database locked after all retries", "retries", retry)
			return apperrors.ErrStorageBusy
		}

		wait := baseBackoff * (1 << (retry + 1)) // 0.2s, 0.4s, 0.8s
		logger.Warn("Database locked, retrying", "retry", retry+1, "max", maxRetries, "wait", wait)
		select {
		case <-time.After(wait):
		case <-opCtx.Done():
			return apperrors.ErrStorageBusy
		}
	}
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// FormatTime renders a timestamp in the stored representation
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseTime parses a stored timestamp
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	if t, err = time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	// Rows written by the previous implementation used bare ISO 8601
	// without a zone offset.
	return time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
}
