package authcore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Register creates a new user account. The email must be unused (exact,
// case-sensitive match) or ErrConflict is returned. The password is
// hashed before storage; no tokens are issued, the caller logs in
// separately. Role defaults to "user".
func (e *Engine) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	email := strings.TrimSpace(input.Email)
	exists, err := e.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		e.metrics.Inc(MetricRegisterConflict)
		e.emitAudit(ctx, ActionRegister, false, email, "", map[string]string{
			"reason": "duplicate_email",
		})
		return nil, ErrConflict
	}

	hash, err := e.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RoleUser
	}
	now := time.Now()
	user := &User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Permissions:  input.Permissions,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.users.Save(ctx, user); err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricRegisterSuccess)
	e.emitAudit(ctx, ActionRegister, true, user.Email, user.ID, nil)
	return user, nil
}
