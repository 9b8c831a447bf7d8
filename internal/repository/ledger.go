package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/andriihrytsai/nutrition-bot/internal/database"
	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
	"github.com/andriihrytsai/nutrition-bot/internal/timeutil"
)

// LedgerRepository is the append-only log of nutrition and water events.
// Rows are immutable once written; the single exception is AddWater,
// which tops up the water of an existing same-day row instead of
// inserting a duplicate.
type LedgerRepository struct {
	db *database.SQLiteDB
}

func NewLedgerRepository(db *database.SQLiteDB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Append inserts one immutable ledger row stamped with the current
// time. Reports success; storage failures are logged, not raised.
func (r *LedgerRepository) Append(ctx context.Context, event domain.FoodAnalysis) bool {
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO food_analyses
			(user_id, analysis_text, dish_name, dish_weight, calories, protein, fat, carbs, water_ml, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.UserID, event.AnalysisText, event.DishName, event.DishWeight,
			event.Calories, event.Protein, event.Fat, event.Carbs, event.WaterML,
			database.FormatTime(time.Now()),
		)
		return err
	})
	if err != nil {
		logger.Error("Failed to append ledger event", "user_id", event.UserID, "error", err)
		return false
	}

	logger.Info("Ledger event appended", "user_id", event.UserID, "dish", event.DishName, "calories", event.Calories)
	return true
}

// AddWater adds waterML to the user's intake for the current calendar
// day. If a row already exists today, its water_ml is incremented in
// place; otherwise a water-only row is inserted.
func (r *LedgerRepository) AddWater(ctx context.Context, userID int64, waterML float64) bool {
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		now := time.Now()
		dayStart, dayEnd := timeutil.DayBounds(now)

		var rowID int64
		var current float64
		err := db.QueryRowContext(ctx, `
			SELECT id, water_ml FROM food_analyses
			WHERE user_id = ? AND created_at BETWEEN ? AND ?
			ORDER BY created_at DESC, id DESC
			LIMIT 1`,
			userID, database.FormatTime(dayStart), database.FormatTime(dayEnd),
		).Scan(&rowID, &current)

		switch {
		case err == sql.ErrNoRows:
			_, err = db.ExecContext(ctx, `
				INSERT INTO food_analyses
				(user_id, analysis_text, dish_name, dish_weight, calories, protein, fat, carbs, water_ml, created_at)
				VALUES (?, '', ?, 0, 0, 0, 0, 0, ?, ?)`,
				userID, domain.WaterDishName, waterML, database.FormatTime(now),
			)
			return err
		case err != nil:
			return err
		default:
			_, err = db.ExecContext(ctx,
				"UPDATE food_analyses SET water_ml = ? WHERE id = ?",
				current+waterML, rowID,
			)
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to add water", "user_id", userID, "error", err)
		return false
	}

	logger.Info("Water added", "user_id", userID, "water_ml", waterML)
	return true
}

// DailyStats aggregates the user's rows for the current calendar day.
// Returns nil when there are no rows. Only rows with a non-water dish
// name and positive calories count as dishes; water is summed across
// every row in the window.
func (r *LedgerRepository) DailyStats(ctx context.Context, userID int64) *domain.DailyStats {
	dayStart, dayEnd := timeutil.DayBounds(time.Now())
	events := r.eventsBetween(ctx, userID, dayStart, dayEnd)
	if len(events) == 0 {
		return nil
	}

	stats := &domain.DailyStats{}
	for _, e := range events {
		if e.IsDish() {
			stats.DishesCount++
			stats.TotalCalories += e.Calories
			stats.TotalProtein += e.Protein
			stats.TotalFat += e.Fat
			stats.TotalCarbs += e.Carbs
		}
		stats.WaterML += e.WaterML
	}
	return stats
}

// WindowedStats aggregates the user's rows over the last hours, keeping
// the individual rows for detailed admin display. Unlike DailyStats the
// window is rolling, not calendar-aligned.
func (r *LedgerRepository) WindowedStats(ctx context.Context, userID int64, hours int) *domain.DetailedStats {
	now := time.Now()
	events := r.eventsBetween(ctx, userID, now.Add(-time.Duration(hours)*time.Hour), now)

	stats := &domain.DetailedStats{Analyses: events}
	for _, e := range events {
		if e.IsDish() {
			stats.TotalAnalyses++
			stats.TotalWeight += e.DishWeight
			stats.TotalCalories += e.Calories
			stats.TotalProtein += e.Protein
			stats.TotalFat += e.Fat
			stats.TotalCarbs += e.Carbs
		}
		stats.TotalWaterML += e.WaterML
	}
	if stats.TotalAnalyses > 0 {
		stats.AverageCalories = stats.TotalCalories / float64(stats.TotalAnalyses)
	}
	return stats
}

// ClearHistory deletes every ledger row of the user. Clearing nothing is
// still success; the caller-facing contract is "cleared", not "deleted
// something".
func (r *LedgerRepository) ClearHistory(ctx context.Context, userID int64) bool {
	var deleted int64
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM food_analyses WHERE user_id = ?", userID)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		logger.Error("Failed to clear user history", "user_id", userID, "error", err)
		return false
	}

	logger.Info("User history cleared", "user_id", userID, "deleted", deleted)
	return true
}

// SweepOlderThan removes, for every user present in the ledger, the rows
// older than the retention horizon. A failure for one user is counted
// and the sweep continues with the rest; the summary is always returned.
func (r *LedgerRepository) SweepOlderThan(ctx context.Context, hours int) domain.SweepResult {
	var result domain.SweepResult
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		cutoff := database.FormatTime(time.Now().Add(-time.Duration(hours) * time.Hour))

		rows, err := db.QueryContext(ctx, "SELECT DISTINCT user_id FROM food_analyses")
		if err != nil {
			return err
		}
		var userIDs []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			userIDs = append(userIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, userID := range userIDs {
			result.UsersScanned++
			res, err := db.ExecContext(ctx,
				"DELETE FROM food_analyses WHERE user_id = ? AND created_at < ?",
				userID, cutoff,
			)
			if err != nil {
				result.ErrorCount++
				logger.Error("Sweep failed for user", "user_id", userID, "error", err)
				continue
			}
			deleted, err := res.RowsAffected()
			if err != nil {
				result.ErrorCount++
				continue
			}
			result.TotalDeleted += int(deleted)
		}
		return nil
	})
	if err != nil {
		logger.Error("Ledger sweep failed", "error", err)
		result.ErrorCount++
		return result
	}

	logger.Info("Ledger sweep finished",
		"users", result.UsersScanned, "deleted", result.TotalDeleted, "errors", result.ErrorCount)
	return result
}

func (r *LedgerRepository) eventsBetween(ctx context.Context, userID int64, from, to time.Time) []domain.FoodAnalysis {
	var events []domain.FoodAnalysis
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT id, user_id, analysis_text, dish_name, dish_weight, calories, protein, fat, carbs, water_ml, created_at
			FROM food_analyses
			WHERE user_id = ? AND created_at BETWEEN ? AND ?
			ORDER BY created_at, id`,
			userID, database.FormatTime(from), database.FormatTime(to),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e domain.FoodAnalysis
			var createdStr string
			if err := rows.Scan(&e.ID, &e.UserID, &e.AnalysisText, &e.DishName, &e.DishWeight,
				&e.Calories, &e.Protein, &e.Fat, &e.Carbs, &e.WaterML, &createdStr); err != nil {
				return err
			}
			if e.CreatedAt, err = database.ParseTime(createdStr); err != nil {
				return err
			}
			events = append(events, e)
		}
		return rows.Err()
	})
	if err != nil {
		logger.Error("Failed to query ledger events", "user_id", userID, "error", err)
		return nil
	}
	return events
}
