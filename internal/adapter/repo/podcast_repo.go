package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// PodcastRepositoryPG implements domain.PodcastRepository backed by PostgreSQL.
type PodcastRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPodcastRepository creates a new PodcastRepositoryPG.
func NewPodcastRepository(pool *pgxpool.Pool) *PodcastRepositoryPG {
	return &PodcastRepositoryPG{pool: pool}
}

const podcastColumns = `id, title, description, content, voice, emotion, speed, audio_url, duration, file_size, owner_email, tags, is_public, language, created_at, updated_at`

// CreateWithQuota persists the record and increments the owner's monthly
// counter in one transaction. The owner row is locked for the duration, so
// two concurrent requests cannot both pass the limit check; the month
// rollover is re-applied under the same lock.
func (r *PodcastRepositoryPG) CreateWithQuota(ctx context.Context, record *domain.PodcastRecord, now time.Time) (*domain.PodcastRecord, int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var (
		count, limit int
		plan         domain.SubscriptionPlan
		lastReset    *time.Time
	)
	err = tx.QueryRow(ctx, `
SELECT monthly_generation_count, monthly_generation_limit, subscription_plan, last_generation_reset
FROM users
WHERE email = $1
FOR UPDATE;
`, record.OwnerEmail).Scan(&count, &limit, &plan, &lastReset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("lock user row: %w", err)
	}

	owner := domain.UserAccount{Plan: plan, MonthlyCount: count, MonthlyLimit: limit, LastGenerationReset: lastReset}
	if owner.NeedsMonthlyReset(now) {
		owner.MonthlyCount = 0
	}
	effective := owner.EffectiveLimit()
	remaining := domain.UnlimitedGenerations
	if !owner.Unlimited() {
		if owner.MonthlyCount >= effective {
			return nil, 0, &domain.QuotaExceededError{Limit: effective}
		}
		remaining = effective - owner.MonthlyCount - 1
	}

	stored := *record
	err = tx.QueryRow(ctx, `
INSERT INTO podcasts (title, description, content, voice, emotion, speed, audio_url, duration, file_size, owner_email, tags, is_public, language)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id, created_at, updated_at;
`,
		record.Title,
		record.Description,
		record.Content,
		record.Voice,
		record.Emotion,
		record.Speed,
		record.AudioURL,
		record.Duration,
		record.FileSize,
		record.OwnerEmail,
		record.Tags,
		record.IsPublic,
		record.Language,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, 0, fmt.Errorf("insert podcast: %w", err)
	}

	if _, err := tx.Exec(ctx, `
UPDATE users
SET monthly_generation_count = $2,
    last_generation_reset = $3,
    updated_at = NOW()
WHERE email = $1;
`, record.OwnerEmail, owner.MonthlyCount+1, now); err != nil {
		return nil, 0, fmt.Errorf("increment quota: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit: %w", err)
	}
	return &stored, remaining, nil
}

// ListByOwner returns the owner's newest podcasts.
func (r *PodcastRepositoryPG) ListByOwner(ctx context.Context, email string, limit int) ([]domain.PodcastRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+podcastColumns+` FROM podcasts WHERE owner_email = $1 ORDER BY created_at DESC LIMIT $2`, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PodcastRecord
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID fetches a podcast by id.
func (r *PodcastRepositoryPG) GetByID(ctx context.Context, id int64) (*domain.PodcastRecord, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+podcastColumns+` FROM podcasts WHERE id = $1`, id)
	return scanPodcast(row)
}

// Delete removes a podcast owned by the given email.
func (r *PodcastRepositoryPG) Delete(ctx context.Context, id int64, ownerEmail string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM podcasts WHERE id = $1 AND owner_email = $2`, id, ownerEmail)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPodcast(row pgx.Row) (*domain.PodcastRecord, error) {
	var p domain.PodcastRecord
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Content,
		&p.Voice,
		&p.Emotion,
		&p.Speed,
		&p.AudioURL,
		&p.Duration,
		&p.FileSize,
		&p.OwnerEmail,
		&p.Tags,
		&p.IsPublic,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ domain.PodcastRepository = (*PodcastRepositoryPG)(nil)
