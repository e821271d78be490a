package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"server/internal/domain"
)

func verifiedUser(email string, plan domain.SubscriptionPlan, count int, reset *time.Time) *domain.UserAccount {
	return &domain.UserAccount{
		Email:               email,
		IsVerified:          true,
		Plan:                plan,
		MonthlyCount:        count,
		MonthlyLimit:        plan.MonthlyLimit(),
		LastGenerationReset: reset,
	}
}

func TestQuotaRemainingFreePlan(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	reset := now.AddDate(0, 0, -3)
	users := newStubUsers(verifiedUser("a@b.com", domain.PlanFree, 4, &reset))
	policy := NewQuotaPolicy(users)

	stats, err := policy.Remaining(context.Background(), "a@b.com", now)
	if err != nil {
		t.Fatalf("Remaining returned error: %v", err)
	}
	if stats.Count != 4 || stats.Limit != 10 || stats.Remaining != 6 || stats.Unlimited {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestQuotaRemainingUnlimitedPlan(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	reset := now.AddDate(0, 0, -1)
	users := newStubUsers(verifiedUser("e@b.com", domain.PlanEnterprise, 123, &reset))
	policy := NewQuotaPolicy(users)

	stats, err := policy.Remaining(context.Background(), "e@b.com", now)
	if err != nil {
		t.Fatalf("Remaining returned error: %v", err)
	}
	if !stats.Unlimited || stats.Remaining != domain.UnlimitedGenerations {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestQuotaRemainingRollsOverOnce(t *testing.T) {
	now := time.Date(2026, time.August, 1, 0, 30, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.July, 20, 0, 0, 0, 0, time.UTC)
	users := newStubUsers(verifiedUser("a@b.com", domain.PlanFree, 10, &lastMonth))
	policy := NewQuotaPolicy(users)

	for i := 0; i < 3; i++ {
		stats, err := policy.Remaining(context.Background(), "a@b.com", now)
		if err != nil {
			t.Fatalf("Remaining call %d returned error: %v", i, err)
		}
		if stats.Count != 0 || stats.Remaining != 10 {
			t.Fatalf("call %d stats = %+v", i, stats)
		}
	}
	if users.resetCalls != 1 {
		t.Fatalf("resetCalls = %d, want exactly one rollover write", users.resetCalls)
	}
}

func TestQuotaRemainingUnknownUser(t *testing.T) {
	policy := NewQuotaPolicy(newStubUsers())
	if _, err := policy.Remaining(context.Background(), "ghost@b.com", time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestQuotaEnsureNilResetTriggersRollover(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	users := newStubUsers(verifiedUser("a@b.com", domain.PlanFree, 7, nil))
	policy := NewQuotaPolicy(users)

	user, _ := users.GetByEmail(context.Background(), "a@b.com")
	if err := policy.Ensure(context.Background(), user, now); err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if user.MonthlyCount != 0 {
		t.Fatalf("count after rollover = %d, want 0", user.MonthlyCount)
	}
	if user.LastGenerationReset == nil || !user.LastGenerationReset.Equal(now) {
		t.Fatalf("LastGenerationReset = %v, want %v", user.LastGenerationReset, now)
	}
}

func TestQuotaEnsureAtLimit(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	reset := now.AddDate(0, 0, -2)
	users := newStubUsers(verifiedUser("a@b.com", domain.PlanFree, 10, &reset))
	policy := NewQuotaPolicy(users)

	user, _ := users.GetByEmail(context.Background(), "a@b.com")
	err := policy.Ensure(context.Background(), user, now)
	var quotaErr *domain.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("err = %v, want QuotaExceededError", err)
	}
	if quotaErr.Limit != 10 {
		t.Fatalf("reported limit = %d, want 10", quotaErr.Limit)
	}
}
