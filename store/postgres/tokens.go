package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lucasandr3/authcore"
)

// TokenStore implements authcore.VerificationTokenStore against a table:
//
//	verification_tokens(id text primary key, token text unique,
//	      type text, email text, expires_at timestamptz,
//	      used_at timestamptz, created_at timestamptz)
type TokenStore struct {
	pool *pgxpool.Pool
}

// NewTokenStore wraps pool.
func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// FindByToken implements authcore.VerificationTokenStore.
func (s *TokenStore) FindByToken(ctx context.Context, token string) (*authcore.VerificationToken, error) {
	var t authcore.VerificationToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, token, type, email, expires_at, used_at, created_at
		FROM verification_tokens WHERE token = $1`, token).
		Scan(&t.ID, &t.Token, &t.Type, &t.Email, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authcore.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning token: %w", err)
	}
	return &t, nil
}

// Save implements authcore.VerificationTokenStore with an upsert keyed on
// id.
func (s *TokenStore) Save(ctx context.Context, t *authcore.VerificationToken) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verification_tokens
			(id, token, type, email, expires_at, used_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET used_at = EXCLUDED.used_at`,
		t.ID, t.Token, t.Type, t.Email, t.ExpiresAt, t.UsedAt, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: saving token: %w", err)
	}
	return nil
}

// DeleteExpired implements authcore.VerificationTokenStore.
func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM verification_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("postgres: deleting expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

// InvalidateAllForEmailAndType implements
// authcore.VerificationTokenStore.
func (s *TokenStore) InvalidateAllForEmailAndType(ctx context.Context, email, tokenType string, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE verification_tokens SET used_at = $1
		WHERE email = $2 AND type = $3 AND used_at IS NULL`,
		now, email, tokenType)
	if err != nil {
		return fmt.Errorf("postgres: invalidating tokens: %w", err)
	}
	return nil
}
