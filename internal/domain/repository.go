package domain

import (
	"context"
	"time"
)

// UserRepository defines access methods for user accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*UserAccount, error)
	// ResetMonthlyCount zeroes the monthly counter and stamps the reset time.
	// Callers invoke it lazily on the first request seen in a new month.
	ResetMonthlyCount(ctx context.Context, email string, now time.Time) error
}

// PodcastRepository defines persistence for podcast records.
type PodcastRepository interface {
	// CreateWithQuota persists the record and increments the owner's monthly
	// counter in a single transaction, rechecking the cap under a row lock.
	// It returns the stored record and the remaining generations
	// (UnlimitedGenerations for uncapped plans).
	CreateWithQuota(ctx context.Context, record *PodcastRecord, now time.Time) (*PodcastRecord, int, error)
	ListByOwner(ctx context.Context, email string, limit int) ([]PodcastRecord, error)
	GetByID(ctx context.Context, id int64) (*PodcastRecord, error)
	Delete(ctx context.Context, id int64, ownerEmail string) error
}
