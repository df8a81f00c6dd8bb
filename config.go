package authcore

import (
	"errors"
	"time"
)

// JWTConfig controls the token codec. RefreshMultiplier scales the access
// lifetime to produce the refresh lifetime.
type JWTConfig struct {
	Secret            []byte
	AccessTTL         time.Duration
	RefreshMultiplier int
	Issuer            string
	Leeway            time.Duration
}

// LoginConfig controls the failed-login lockout. An account with
// MaxFailedAttempts or more recorded failures is rejected before the
// password is even compared.
type LoginConfig struct {
	MaxFailedAttempts int
	FailedAttemptTTL  time.Duration
}

// VerificationConfig sets the lifetimes of the two verification token
// types.
type VerificationConfig struct {
	EmailTokenTTL time.Duration
	ResetTokenTTL time.Duration
}

// CacheConfig names the Redis key prefix and the fallback TTL for cache
// writes that do not pass an explicit one.
type CacheConfig struct {
	KeyPrefix  string
	DefaultTTL time.Duration
}

// RateLimitConfig carries the per-route request budgets the HTTP layer
// wires into middleware.RateLimit. DefaultMax applies to unlisted routes.
type RateLimitConfig struct {
	DefaultMax        int
	Window            time.Duration
	LoginMax          int
	RegisterMax       int
	ForgotPasswordMax int
}

// AuditConfig controls the async security-event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// Config is the aggregate engine configuration consumed by Builder.Build.
type Config struct {
	JWT          JWTConfig
	Login        LoginConfig
	Verification VerificationConfig
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Audit        AuditConfig
}

// DefaultConfig returns the baseline configuration. The JWT secret is
// intentionally absent: Build fails until the caller provides one.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:         time.Hour,
			RefreshMultiplier: 24,
			Issuer:            "authcore",
			Leeway:            0,
		},
		Login: LoginConfig{
			MaxFailedAttempts: 5,
			FailedAttemptTTL:  time.Hour,
		},
		Verification: VerificationConfig{
			EmailTokenTTL: 24 * time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Cache: CacheConfig{
			KeyPrefix:  "authcore",
			DefaultTTL: time.Hour,
		},
		RateLimit: RateLimitConfig{
			DefaultMax:        100,
			Window:            time.Minute,
			LoginMax:          5,
			RegisterMax:       3,
			ForgotPasswordMax: 3,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

// Validate checks the configuration for values the engine cannot run
// with. It is called by Builder.Build before anything is constructed.
func (c Config) Validate() error {
	if len(c.JWT.Secret) == 0 {
		return errors.New("authcore: jwt secret must not be empty")
	}
	if c.JWT.AccessTTL <= 0 {
		return errors.New("authcore: jwt access ttl must be positive")
	}
	if c.JWT.RefreshMultiplier < 1 {
		return errors.New("authcore: jwt refresh multiplier must be at least 1")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("authcore: jwt leeway must not be negative")
	}
	if c.Login.MaxFailedAttempts < 1 {
		return errors.New("authcore: login max failed attempts must be at least 1")
	}
	if c.Login.FailedAttemptTTL <= 0 {
		return errors.New("authcore: login failed attempt ttl must be positive")
	}
	if c.Verification.EmailTokenTTL <= 0 || c.Verification.ResetTokenTTL <= 0 {
		return errors.New("authcore: verification token ttls must be positive")
	}
	if c.Cache.KeyPrefix == "" {
		return errors.New("authcore: cache key prefix must not be empty")
	}
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("authcore: cache default ttl must be positive")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("authcore: audit buffer size must be at least 1")
	}
	return nil
}
