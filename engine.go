package authcore

import (
	"context"
	"time"

	"github.com/lucasandr3/authcore/cache"
	"github.com/lucasandr3/authcore/jwt"
	"github.com/lucasandr3/authcore/password"
)

// Engine is the authentication core. Construct it with the Builder; the
// zero value is not usable. Safe for concurrent use after Build.
type Engine struct {
	config  Config
	users   UserStore
	tokens  VerificationTokenStore
	logs    SecurityLogStore
	cache   *cache.Cache
	jwt     *jwt.Manager
	hasher  *password.Hasher
	audit   *auditDispatcher
	metrics *Metrics
}

// Close stops the audit dispatcher, draining any queued events. Call it
// once all engine operations have finished.
func (e *Engine) Close() {
	if e.audit != nil {
		e.audit.close()
	}
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were lost to a full
// dispatcher buffer.
func (e *Engine) AuditDropped() uint64 {
	if e.audit == nil {
		return 0
	}
	return e.audit.droppedCount()
}

func (e *Engine) ready() bool {
	return e != nil && e.users != nil && e.tokens != nil && e.logs != nil &&
		e.cache != nil && e.jwt != nil && e.hasher != nil
}

// emitAudit queues one security event, filling IP and user agent from the
// request context.
func (e *Engine) emitAudit(ctx context.Context, action string, success bool, email, userID string, metadata map[string]string) {
	if e.audit == nil {
		return
	}
	e.audit.emit(AuditEvent{
		Timestamp: time.Now(),
		Action:    action,
		Email:     email,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	})
}

func (e *Engine) issueTokenPair(user *User) (*TokenPair, error) {
	access, err := e.jwt.CreateAccess(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	refresh, err := e.jwt.CreateRefresh(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(e.jwt.AccessTTL() / time.Second),
	}, nil
}
