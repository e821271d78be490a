package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, email, is_verified, is_admin, subscription_plan, monthly_generation_count, monthly_generation_limit, last_generation_reset, created_at, updated_at`

// GetByEmail fetches a user account by its unique email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ResetMonthlyCount zeroes the monthly counter and stamps the reset time.
func (r *UserRepositoryPG) ResetMonthlyCount(ctx context.Context, email string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET monthly_generation_count = 0,
    last_generation_reset = $2,
    updated_at = NOW()
WHERE email = $1;
`, email, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.UserAccount, error) {
	var u domain.UserAccount
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.IsVerified,
		&u.IsAdmin,
		&u.Plan,
		&u.MonthlyCount,
		&u.MonthlyLimit,
		&u.LastGenerationReset,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
