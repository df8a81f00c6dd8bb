package authcore

import (
	"context"
	"time"
)

// Verification token types accepted by the verification flows.
const (
	TokenTypeEmailVerification = "email_verification"
	TokenTypePasswordReset     = "password_reset"
)

// Roles with elevated access in the role middleware presets.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// User defines a public type used by authcore APIs. Email is the unique,
// case-sensitive login identifier. EmailVerifiedAt and LastLoginAt are nil
// until the corresponding event happened. Users are never deleted by core
// flows; deactivation flips IsActive.
type User struct {
	ID              string
	Name            string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	Role            string
	Permissions     []string
	IsActive        bool
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user completed email verification.
func (u *User) Verified() bool {
	return u.EmailVerifiedAt != nil
}

// HasPermission reports whether perm is in the user's permission set.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// AddPermission appends perm unless already present.
func (u *User) AddPermission(perm string) {
	if u.HasPermission(perm) {
		return
	}
	u.Permissions = append(u.Permissions, perm)
}

// RemovePermission deletes perm from the permission set if present.
func (u *User) RemovePermission(perm string) {
	for i, p := range u.Permissions {
		if p == perm {
			u.Permissions = append(u.Permissions[:i], u.Permissions[i+1:]...)
			return
		}
	}
}

// VerificationToken defines a public type used by authcore APIs. Token is
// the 64-hex-char secret handed to the user; lookups are exact string
// matches. A token moves none -> valid -> used; expiry is implicit.
type VerificationToken struct {
	ID        string
	Token     string
	Type      string
	Email     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Valid reports whether the token is unused and unexpired at now.
func (t *VerificationToken) Valid(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// MarkUsed stamps the token as consumed. Used tokens never validate again.
func (t *VerificationToken) MarkUsed(now time.Time) {
	used := now
	t.UsedAt = &used
}

// SecurityLog defines a public type used by authcore APIs: one append-only
// security event. Action is one of the audit action constants. Email and
// UserID are optional depending on how far the flow progressed.
type SecurityLog struct {
	ID        string
	Action    string
	Email     string
	UserID    string
	IP        string
	UserAgent string
	Metadata  map[string]string
	Success   bool
	CreatedAt time.Time
}

// RegisterInput carries the fields accepted by Engine.Register. Role
// defaults to "user" when empty.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Role        string
	Permissions []string
}

// TokenPair defines a public type used by authcore APIs: the result of a
// successful authentication or refresh. ExpiresIn is the access token
// lifetime in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresIn    int64
}

// ActionStats aggregates outcomes for one audit action tag.
type ActionStats struct {
	Success int64
	Failed  int64
}

// UserStats is the reporting snapshot returned by Engine.UserStats.
type UserStats struct {
	Total    int64
	Active   int64
	Verified int64
}

// UserStore is the persistence contract the host application implements
// for user records. Lookups return ErrUserNotFound on miss. Save inserts
// or updates by ID.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Stats(ctx context.Context) (UserStats, error)
}

// VerificationTokenStore persists verification tokens. FindByToken returns
// ErrTokenNotFound on miss. DeleteExpired removes every token whose
// ExpiresAt is before now, used or not, and reports how many went away.
// InvalidateAllForEmailAndType marks all still-unused tokens for that
// (email, type) pair as used, enforcing the single-valid-token rule.
type VerificationTokenStore interface {
	FindByToken(ctx context.Context, token string) (*VerificationToken, error)
	Save(ctx context.Context, token *VerificationToken) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	InvalidateAllForEmailAndType(ctx context.Context, email, tokenType string, now time.Time) error
}

// SecurityLogStore persists and queries security events. Append never
// mutates existing rows. Query methods return newest-first slices capped
// at limit. Stats aggregates per-action success/failure counts since the
// given instant.
type SecurityLogStore interface {
	Append(ctx context.Context, entry *SecurityLog) error
	FindByUser(ctx context.Context, userID string, limit int) ([]SecurityLog, error)
	FindByEmail(ctx context.Context, email string, limit int) ([]SecurityLog, error)
	FindByIP(ctx context.Context, ip string, limit int) ([]SecurityLog, error)
	CountFailedLogins(ctx context.Context, email string, since time.Time) (int64, error)
	Stats(ctx context.Context, since time.Time) (map[string]ActionStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
