package authcore

import (
	"context"
	"time"
)

// Admin reporting and maintenance operations. These read the persistent
// security log and user store directly; they are meant to sit behind the
// admin role gate in the HTTP layer.

// SecurityStats aggregates per-action success/failure counts over the
// last days days.
func (e *Engine) SecurityStats(ctx context.Context, days int) (map[string]ActionStats, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if days < 1 {
		days = 1
	}
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	return e.logs.Stats(ctx, since)
}

// UserStats returns total/active/verified account counts.
func (e *Engine) UserStats(ctx context.Context) (UserStats, error) {
	if !e.ready() {
		return UserStats{}, ErrEngineNotReady
	}
	return e.users.Stats(ctx)
}

// UserLogs returns the newest security events for a user id.
func (e *Engine) UserLogs(ctx context.Context, userID string, limit int) ([]SecurityLog, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	return e.logs.FindByUser(ctx, userID, normalizeLimit(limit))
}

// EmailLogs returns the newest security events recorded for an email.
func (e *Engine) EmailLogs(ctx context.Context, email string, limit int) ([]SecurityLog, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	return e.logs.FindByEmail(ctx, email, normalizeLimit(limit))
}

// IPLogs returns the newest security events recorded for an IP address.
func (e *Engine) IPLogs(ctx context.Context, ip string, limit int) ([]SecurityLog, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	return e.logs.FindByIP(ctx, ip, normalizeLimit(limit))
}

// HasTooManyFailedLogins reports whether email accumulated max or more
// failed-login events in the persistent log within the window. Unlike the
// cache counter this survives Redis restarts; it backs offline analysis,
// not the login path.
func (e *Engine) HasTooManyFailedLogins(ctx context.Context, email string, max int, window time.Duration) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	count, err := e.logs.CountFailedLogins(ctx, email, time.Now().Add(-window))
	if err != nil {
		return false, err
	}
	return count >= int64(max), nil
}

// CleanupLogs deletes security log entries older than days days and
// reports how many were removed.
func (e *Engine) CleanupLogs(ctx context.Context, days int) (int64, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	if days < 1 {
		days = 1
	}
	return e.logs.DeleteOlderThan(ctx, time.Now().Add(-time.Duration(days)*24*time.Hour))
}

// ClearCache wipes every attempt-cache entry: blacklist, failed-login
// counters, and rate counters. Keys outside the engine's prefix are
// untouched.
func (e *Engine) ClearCache(ctx context.Context) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	return e.cache.ClearAll(ctx)
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return 50
	}
	return limit
}
