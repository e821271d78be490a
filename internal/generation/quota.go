package generation

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
)

// QuotaStats reports an account's monthly usage.
type QuotaStats struct {
	Count     int  `json:"count"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Unlimited bool `json:"unlimited"`
}

// QuotaPolicy applies the lazy month-rollover rule: the counter resets on the
// first request observed in a new calendar month, not on a schedule.
type QuotaPolicy struct {
	users domain.UserRepository
}

func NewQuotaPolicy(users domain.UserRepository) *QuotaPolicy {
	return &QuotaPolicy{users: users}
}

// Ensure performs the rollover if due (mutating user so the caller sees the
// reset) and then checks the monthly cap. The reset write is the only side
// effect; within the same month repeated calls change nothing.
func (q *QuotaPolicy) Ensure(ctx context.Context, user *domain.UserAccount, now time.Time) error {
	if err := q.rollover(ctx, user, now); err != nil {
		return err
	}
	if user.Unlimited() {
		return nil
	}
	if limit := user.EffectiveLimit(); user.MonthlyCount >= limit {
		return &domain.QuotaExceededError{Limit: limit}
	}
	return nil
}

// Remaining resolves the account and reports its quota state, applying the
// same rollover rule as the generation path.
func (q *QuotaPolicy) Remaining(ctx context.Context, email string, now time.Time) (QuotaStats, error) {
	user, err := q.users.GetByEmail(ctx, email)
	if err != nil {
		return QuotaStats{}, err
	}
	if err := q.rollover(ctx, user, now); err != nil {
		return QuotaStats{}, err
	}
	stats := QuotaStats{
		Count:     user.MonthlyCount,
		Limit:     user.EffectiveLimit(),
		Unlimited: user.Unlimited(),
	}
	if stats.Unlimited {
		stats.Remaining = domain.UnlimitedGenerations
	} else if stats.Remaining = stats.Limit - stats.Count; stats.Remaining < 0 {
		stats.Remaining = 0
	}
	return stats, nil
}

func (q *QuotaPolicy) rollover(ctx context.Context, user *domain.UserAccount, now time.Time) error {
	if !user.NeedsMonthlyReset(now) {
		return nil
	}
	if err := q.users.ResetMonthlyCount(ctx, user.Email, now); err != nil {
		return fmt.Errorf("reset monthly count: %w", err)
	}
	user.MonthlyCount = 0
	reset := now
	user.LastGenerationReset = &reset
	return nil
}
