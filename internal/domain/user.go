package domain

import "time"

// SubscriptionPlan enumerates billing plans.
type SubscriptionPlan string

const (
	PlanFree       SubscriptionPlan = "free"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

// UnlimitedGenerations marks a plan without a monthly cap.
const UnlimitedGenerations = -1

// MonthlyLimit returns the default monthly generation cap for the plan.
func (p SubscriptionPlan) MonthlyLimit() int {
	switch p {
	case PlanPro:
		return 50
	case PlanEnterprise:
		return UnlimitedGenerations
	default:
		return 10
	}
}

// UserAccount represents a registered account keyed by email.
type UserAccount struct {
	ID                  int64
	Email               string
	IsVerified          bool
	IsAdmin             bool
	Plan                SubscriptionPlan
	MonthlyCount        int
	MonthlyLimit        int
	LastGenerationReset *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EffectiveLimit returns the account's monthly cap, falling back to the plan
// default when the stored limit was never set.
func (u UserAccount) EffectiveLimit() int {
	if u.MonthlyLimit != 0 {
		return u.MonthlyLimit
	}
	return u.Plan.MonthlyLimit()
}

// Unlimited reports whether the account has no monthly cap.
func (u UserAccount) Unlimited() bool {
	return u.EffectiveLimit() == UnlimitedGenerations
}

// NeedsMonthlyReset reports whether the monthly counter belongs to a prior
// calendar month relative to now.
func (u UserAccount) NeedsMonthlyReset(now time.Time) bool {
	if u.LastGenerationReset == nil {
		return true
	}
	last := u.LastGenerationReset.In(now.Location())
	return last.Year() != now.Year() || last.Month() != now.Month()
}
