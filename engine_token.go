package authcore

import (
	"context"
	"time"
)

// Refresh exchanges a refresh token for a fresh pair. The presented token
// must carry the refresh-use claim and its user must still exist and be
// active. The presented refresh token is NOT invalidated: until it
// expires it can mint further pairs. Revocation happens only through
// Logout on access tokens.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(refreshToken)
	if err != nil || !claims.IsRefresh() {
		e.metrics.Inc(MetricRefreshFailure)
		return nil, ErrUnauthorized
	}

	user, err := e.users.FindByID(ctx, claims.UserID)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		e.metrics.Inc(MetricRefreshFailure)
		return nil, ErrUnauthorized
	}

	pair, err := e.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	e.metrics.Inc(MetricRefreshSuccess)
	return pair, nil
}

// UserFromToken resolves an access token to its user record. Invalid,
// expired, or blacklisted tokens and missing users all yield
// ErrUnauthorized.
func (e *Engine) UserFromToken(ctx context.Context, token string) (*User, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	blacklisted, err := e.cache.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrUnauthorized
	}
	user, err := e.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Logout blacklists the presented access token for its remaining
// lifetime and records a logout event. An already-invalid token is
// ErrUnauthorized.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	claims, err := e.jwt.Parse(token)
	if err != nil {
		return ErrUnauthorized
	}
	ttl := e.cache.DefaultTTL()
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	if err := e.cache.BlacklistToken(ctx, token, ttl); err != nil {
		return err
	}
	e.metrics.Inc(MetricTokenBlacklisted)
	e.metrics.Inc(MetricLogout)
	e.emitAudit(ctx, ActionLogout, true, claims.Email, claims.UserID, nil)
	return nil
}
