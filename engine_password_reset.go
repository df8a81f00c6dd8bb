package authcore

import (
	"context"
	"errors"
	"time"
)

// RequestPasswordReset issues a password reset token for email, valid for
// the configured lifetime (default 1h). When no account exists for the
// email the call succeeds with a nil token, so callers can return the
// same response either way and the endpoint cannot be used to probe for
// accounts. Prior unused reset tokens for the email are invalidated.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (*VerificationToken, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	_, err := e.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		e.emitAudit(ctx, ActionPasswordReset, false, email, "", map[string]string{
			"stage":  "requested",
			"reason": "unknown_email",
		})
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	token, err := e.issueVerificationToken(ctx, email, TokenTypePasswordReset, e.config.Verification.ResetTokenTTL)
	if err != nil {
		return nil, err
	}
	e.metrics.Inc(MetricPasswordResetRequested)
	e.emitAudit(ctx, ActionPasswordReset, true, email, "", map[string]string{
		"stage": "requested",
	})
	return token, nil
}

// ConfirmPasswordReset consumes a reset token and installs newPassword
// for its user. Any invalid token yields false without distinguishing
// why; the error return is reserved for backend failures. Existing access
// tokens remain valid after a reset; only Logout revokes them.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}

	now := time.Now()
	token, err := e.tokens.FindByToken(ctx, tokenStr)
	if errors.Is(err, ErrTokenNotFound) {
		e.rejectVerification(ctx, "", MetricPasswordResetRejected, ActionPasswordReset, "token_not_found")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if token.Type != TokenTypePasswordReset || !token.Valid(now) {
		e.rejectVerification(ctx, token.Email, MetricPasswordResetRejected, ActionPasswordReset, "token_invalid")
		return false, nil
	}

	user, err := e.users.FindByEmail(ctx, token.Email)
	if errors.Is(err, ErrUserNotFound) {
		e.rejectVerification(ctx, token.Email, MetricPasswordResetRejected, ActionPasswordReset, "user_not_found")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return false, err
	}
	user.PasswordHash = hash
	user.UpdatedAt = now
	if err := e.users.Save(ctx, user); err != nil {
		return false, err
	}
	token.MarkUsed(now)
	if err := e.tokens.Save(ctx, token); err != nil {
		return false, err
	}

	e.metrics.Inc(MetricPasswordResetConfirmed)
	e.emitAudit(ctx, ActionPasswordReset, true, user.Email, user.ID, map[string]string{
		"stage": "confirmed",
	})
	return true, nil
}
