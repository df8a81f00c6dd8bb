package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lucasandr3/authcore/internal"
)

// RequestEmailVerification issues a fresh email verification token for
// email, valid for the configured lifetime (default 24h). Any still-unused
// token of the same type for that email is invalidated first, so at most
// one token can ever confirm.
func (e *Engine) RequestEmailVerification(ctx context.Context, email string) (*VerificationToken, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	token, err := e.issueVerificationToken(ctx, email, TokenTypeEmailVerification, e.config.Verification.EmailTokenTTL)
	if err != nil {
		return nil, err
	}
	e.metrics.Inc(MetricEmailVerificationRequested)
	e.emitAudit(ctx, ActionEmailVerification, true, email, "", map[string]string{
		"stage": "requested",
	})
	return token, nil
}

// ConfirmEmailVerification consumes an email verification token. On
// success the user is marked verified and the token used; any invalid
// token (unknown, wrong type, expired, already used, orphaned email)
// yields false with no hint which condition failed. The error return is
// reserved for backend failures.
func (e *Engine) ConfirmEmailVerification(ctx context.Context, tokenStr string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}

	now := time.Now()
	token, err := e.tokens.FindByToken(ctx, tokenStr)
	if errors.Is(err, ErrTokenNotFound) {
		e.rejectVerification(ctx, "", MetricEmailVerificationRejected, ActionEmailVerification, "token_not_found")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if token.Type != TokenTypeEmailVerification || !token.Valid(now) {
		e.rejectVerification(ctx, token.Email, MetricEmailVerificationRejected, ActionEmailVerification, "token_invalid")
		return false, nil
	}

	user, err := e.users.FindByEmail(ctx, token.Email)
	if errors.Is(err, ErrUserNotFound) {
		e.rejectVerification(ctx, token.Email, MetricEmailVerificationRejected, ActionEmailVerification, "user_not_found")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	user.EmailVerifiedAt = &now
	user.UpdatedAt = now
	if err := e.users.Save(ctx, user); err != nil {
		return false, err
	}
	token.MarkUsed(now)
	if err := e.tokens.Save(ctx, token); err != nil {
		return false, err
	}

	e.metrics.Inc(MetricEmailVerificationConfirmed)
	e.emitAudit(ctx, ActionEmailVerification, true, user.Email, user.ID, map[string]string{
		"stage": "confirmed",
	})
	return true, nil
}

// CheckVerificationToken reports whether tokenStr is a currently valid
// token of the given type. Read-only: the token is not consumed.
func (e *Engine) CheckVerificationToken(ctx context.Context, tokenStr, tokenType string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	token, err := e.tokens.FindByToken(ctx, tokenStr)
	if errors.Is(err, ErrTokenNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return token.Type == tokenType && token.Valid(time.Now()), nil
}

// PurgeExpiredTokens removes every expired verification token, used or
// not, and reports how many were deleted.
func (e *Engine) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	return e.tokens.DeleteExpired(ctx, time.Now())
}

// issueVerificationToken enforces the single-valid-token rule: invalidate
// prior unused tokens for (email, type), then create and persist a fresh
// one. The two steps are not transactional; a crash in between leaves no
// valid token, never two.
func (e *Engine) issueVerificationToken(ctx context.Context, email, tokenType string, ttl time.Duration) (*VerificationToken, error) {
	now := time.Now()
	if err := e.tokens.InvalidateAllForEmailAndType(ctx, email, tokenType, now); err != nil {
		return nil, err
	}
	secret, err := internal.NewSecureToken()
	if err != nil {
		return nil, err
	}
	token := &VerificationToken{
		ID:        uuid.NewString(),
		Token:     secret,
		Type:      tokenType,
		Email:     email,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := e.tokens.Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

func (e *Engine) rejectVerification(ctx context.Context, email string, metric MetricID, action, reason string) {
	e.metrics.Inc(metric)
	e.emitAudit(ctx, action, false, email, "", map[string]string{
		"reason": reason,
	})
}
