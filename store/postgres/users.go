package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasandr3/authcore"
)

// UserStore implements authcore.UserStore against a table:
//
//	users(id text primary key, name text, email text unique,
//	      password_hash text, email_verified_at timestamptz,
//	      role text, permissions text[], is_active boolean,
//	      last_login_at timestamptz, created_at timestamptz,
//	      updated_at timestamptz)
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore wraps pool.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = `id, name, email, password_hash, email_verified_at,
	role, permissions, is_active, last_login_at, created_at, updated_at`

// FindByEmail implements authcore.UserStore.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*authcore.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// FindByID implements authcore.UserStore.
func (s *UserStore) FindByID(ctx context.Context, id string) (*authcore.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Save implements authcore.UserStore with an upsert keyed on id.
func (s *UserStore) Save(ctx context.Context, u *authcore.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			email_verified_at = EXCLUDED.email_verified_at,
			role = EXCLUDED.role,
			permissions = EXCLUDED.permissions,
			is_active = EXCLUDED.is_active,
			last_login_at = EXCLUDED.last_login_at,
			updated_at = EXCLUDED.updated_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.EmailVerifiedAt,
		u.Role, u.Permissions, u.IsActive, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: saving user: %w", err)
	}
	return nil
}

// ExistsByEmail implements authcore.UserStore.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: checking email: %w", err)
	}
	return exists, nil
}

// Stats implements authcore.UserStore.
func (s *UserStore) Stats(ctx context.Context) (authcore.UserStats, error) {
	var stats authcore.UserStats
	err := s.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE is_active),
		       count(*) FILTER (WHERE email_verified_at IS NOT NULL)
		FROM users`).Scan(&stats.Total, &stats.Active, &stats.Verified)
	if err != nil {
		return authcore.UserStats{}, fmt.Errorf("postgres: user stats: %w", err)
	}
	return stats, nil
}

func scanUser(row pgx.Row) (*authcore.User, error) {
	var u authcore.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.EmailVerifiedAt,
		&u.Role, &u.Permissions, &u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authcore.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning user: %w", err)
	}
	return &u, nil
}
