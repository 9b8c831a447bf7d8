package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andriihrytsai/nutrition-bot/internal/database"
	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

const daysPerMonth = 30 // 1 month of subscription is exactly 30 days

// SubscriptionRepository stores one paid access window per user.
// Renewals while a window is active stack: the new duration is appended
// to the existing end date, never restarted from now.
type SubscriptionRepository struct {
	db *database.SQLiteDB
}

func NewSubscriptionRepository(db *database.SQLiteDB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Activate creates or extends the user's subscription by months blocks
// of 30 days. Reports success; storage failures are logged, not raised.
func (r *SubscriptionRepository) Activate(ctx context.Context, userID int64, months int) bool {
	if months <= 0 {
		logger.Warn("Rejected subscription activation", "user_id", userID, "months", months)
		return false
	}

	var endDate time.Time
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		now := time.Now()
		duration := time.Duration(daysPerMonth*months) * 24 * time.Hour

		var existingEnd string
		err := db.QueryRowContext(ctx,
			"SELECT end_date FROM subscriptions WHERE user_id = ?", userID,
		).Scan(&existingEnd)

		switch {
		case err == sql.ErrNoRows:
			endDate = now.Add(duration)
			_, err = db.ExecContext(ctx, `
				INSERT INTO subscriptions (user_id, start_date, end_date, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				userID,
				database.FormatTime(now),
				database.FormatTime(endDate),
				database.FormatTime(now),
				database.FormatTime(now),
			)
			return err
		case err != nil:
			return err
		default:
			currentEnd, perr := database.ParseTime(existingEnd)
			if perr != nil {
				return fmt.Errorf("corrupt end_date for user %d: %w", userID, perr)
			}
			if currentEnd.After(now) {
				// Still active: stack the renewal.
				endDate = currentEnd.Add(duration)
			} else {
				// Expired: fresh window from now.
				endDate = now.Add(duration)
			}
			_, err = db.ExecContext(ctx, `
				UPDATE subscriptions SET end_date = ?, updated_at = ? WHERE user_id = ?`,
				database.FormatTime(endDate), database.FormatTime(now), userID,
			)
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to activate subscription", "user_id", userID, "error", err)
		return false
	}

	logger.Info("Subscription activated", "user_id", userID, "months", months, "until", endDate.Format("2006-01-02"))
	return true
}

// Status returns the computed subscription view. Absence of a row is a
// valid outcome with HasSubscription=false, never an error.
func (r *SubscriptionRepository) Status(ctx context.Context, userID int64) domain.SubscriptionStatus {
	var status domain.SubscriptionStatus
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		var startStr, endStr string
		err := db.QueryRowContext(ctx,
			"SELECT start_date, end_date FROM subscriptions WHERE user_id = ?", userID,
		).Scan(&startStr, &endStr)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		start, err := database.ParseTime(startStr)
		if err != nil {
			return err
		}
		end, err := database.ParseTime(endStr)
		if err != nil {
			return err
		}

		now := time.Now()
		daysLeft := int(end.Sub(now).Hours() / 24)
		if daysLeft < 0 {
			daysLeft = 0
		}

		status = domain.SubscriptionStatus{
			HasSubscription: true,
			StartDate:       start,
			EndDate:         end,
			DaysLeft:        daysLeft,
			IsActive:        end.After(now),
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to get subscription status", "user_id", userID, "error", err)
		return domain.SubscriptionStatus{}
	}
	return status
}

// Revoke deletes the user's subscription. Reports whether a row existed.
func (r *SubscriptionRepository) Revoke(ctx context.Context, userID int64) bool {
	var existed bool
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM subscriptions WHERE user_id = ?", userID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		existed = affected > 0
		return nil
	})
	if err != nil {
		logger.Error("Failed to revoke subscription", "user_id", userID, "error", err)
		return false
	}

	logger.Info("Subscription revoked", "user_id", userID, "existed", existed)
	return existed
}

// SweepExpired deletes every subscription whose end date has passed and
// returns the number of rows removed.
func (r *SubscriptionRepository) SweepExpired(ctx context.Context) int {
	var deleted int64
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			"DELETE FROM subscriptions WHERE end_date < ?",
			database.FormatTime(time.Now()),
		)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		logger.Error("Failed to sweep expired subscriptions", "error", err)
		return 0
	}

	if deleted > 0 {
		logger.Info("Expired subscriptions removed", "count", deleted)
	}
	return int(deleted)
}

// ListAll returns every subscription with computed fields, newest end
// date first. Used for admin reporting.
func (r *SubscriptionRepository) ListAll(ctx context.Context) []domain.SubscriptionInfo {
	var infos []domain.SubscriptionInfo
	err := r.db.WithConn(ctx, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT user_id, start_date, end_date, created_at, updated_at
			FROM subscriptions
			ORDER BY end_date DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		now := time.Now()
		for rows.Next() {
			var sub domain.Subscription
			var startStr, endStr, createdStr, updatedStr string
			if err := rows.Scan(&sub.UserID, &startStr, &endStr, &createdStr, &updatedStr); err != nil {
				return err
			}
			if sub.StartDate, err = database.ParseTime(startStr); err != nil {
				return err
			}
			if sub.EndDate, err = database.ParseTime(endStr); err != nil {
				return err
			}
			if sub.CreatedAt, err = database.ParseTime(createdStr); err != nil {
				return err
			}
			if sub.UpdatedAt, err = database.ParseTime(updatedStr); err != nil {
				return err
			}

			daysLeft := int(sub.EndDate.Sub(now).Hours() / 24)
			if daysLeft < 0 {
				daysLeft = 0
			}
			infos = append(infos, domain.SubscriptionInfo{
				Subscription: sub,
				DaysLeft:     daysLeft,
				IsActive:     sub.EndDate.After(now),
			})
		}
		return rows.Err()
	})
	if err != nil {
		logger.Error("Failed to list subscriptions", "error", err)
		return nil
	}
	return infos
}

// Stats aggregates subscription counts for admin reporting.
func (r *SubscriptionRepository) Stats(ctx context.Context) domain.SubscriptionStats {
	var stats domain.SubscriptionStats
	for _, info := range r.ListAll(ctx) {
		stats.Total++
		if info.IsActive {
			stats.Active++
			if info.DaysLeft > 0 && info.DaysLeft <= 7 {
				stats.ExpiringSoon++
			}
		} else {
			stats.Expired++
		}
	}
	return stats
}
