package authcore

import (
	"context"
	"errors"
	"log"
	"time"
)

// Authenticate verifies email/password and returns a fresh token pair.
//
// The lockout check runs before the password is compared: once the
// failed-attempt counter reaches the configured maximum, the account is
// rejected for the counter's remaining TTL even when the password is
// correct. Unknown email, wrong password, and inactive account all
// surface as the same ErrUnauthorized; the distinction exists only in the
// security log.
func (e *Engine) Authenticate(ctx context.Context, email, password string) (*TokenPair, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	attempts, err := e.cache.FailedLoginAttempts(ctx, email)
	if err != nil {
		return nil, err
	}
	if attempts >= e.config.Login.MaxFailedAttempts {
		e.metrics.Inc(MetricLoginLockout)
		e.emitAudit(ctx, ActionFailedLogin, false, email, "", map[string]string{
			"reason": "too_many_attempts",
		})
		return nil, ErrUnauthorized
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	match := false
	if user != nil {
		ok, verifyErr := e.hasher.Verify(password, user.PasswordHash)
		if verifyErr == nil && ok {
			match = true
		}
	}
	if !match {
		e.recordFailedLogin(ctx, email, "invalid_credentials")
		return nil, ErrUnauthorized
	}

	if !user.IsActive {
		// Correct password for a disabled account: logged, but it does
		// not advance the lockout counter.
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, ActionFailedLogin, false, email, user.ID, map[string]string{
			"reason": "account_inactive",
		})
		return nil, ErrUnauthorized
	}

	if err := e.cache.ResetFailedLogin(ctx, email); err != nil {
		log.Printf("authcore: resetting failed-login counter: %v", err)
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := e.users.Save(ctx, user); err != nil {
		return nil, err
	}

	pair, err := e.issueTokenPair(user)
	if err != nil {
		return nil, err
	}
	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, ActionLogin, true, user.Email, user.ID, nil)
	return pair, nil
}

// recordFailedLogin bumps the attempt counter and logs the failure. The
// counter write is best-effort: a cache outage must not turn a failed
// login into a different error.
func (e *Engine) recordFailedLogin(ctx context.Context, email, reason string) {
	if _, err := e.cache.IncrementFailedLogin(ctx, email, e.config.Login.FailedAttemptTTL); err != nil {
		log.Printf("authcore: incrementing failed-login counter: %v", err)
	}
	e.metrics.Inc(MetricLoginFailure)
	e.emitAudit(ctx, ActionFailedLogin, false, email, "", map[string]string{
		"reason": reason,
	})
}

// ValidateCredentials reports whether email/password match an active
// account. It does not touch the attempt counter, issue tokens, or write
// security log entries.
func (e *Engine) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	user, err := e.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !user.IsActive {
		return false, nil
	}
	ok, err := e.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return false, nil
	}
	return ok, nil
}
