package authcore

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lucasandr3/authcore/cache"
	"github.com/lucasandr3/authcore/jwt"
	"github.com/lucasandr3/authcore/password"
)

// Builder assembles an Engine. Chain With* setters and finish with
// Build, which validates everything once and fails fast rather than
// letting a half-wired engine limp along.
type Builder struct {
	config  Config
	users   UserStore
	tokens  VerificationTokenStore
	logs    SecurityLogStore
	redis   redis.UniversalClient
	sink    AuditSink
	hashCfg password.Config
}

// New returns a Builder preloaded with DefaultConfig. The JWT secret
// must still be supplied via WithConfig or WithSecret.
func New() *Builder {
	return &Builder{
		config:  DefaultConfig(),
		hashCfg: password.DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithSecret sets only the JWT signing secret, keeping the rest of the
// configuration as-is.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.JWT.Secret = secret
	return b
}

// WithUserStore wires the user persistence backend.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithVerificationTokenStore wires the verification token backend.
func (b *Builder) WithVerificationTokenStore(store VerificationTokenStore) *Builder {
	b.tokens = store
	return b
}

// WithSecurityLogStore wires the security log backend. Unless a custom
// sink is set, audit events are persisted here.
func (b *Builder) WithSecurityLogStore(store SecurityLogStore) *Builder {
	b.logs = store
	return b
}

// WithRedis wires the Redis client backing the attempt cache.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink overrides the default StoreSink for audit delivery. The
// SecurityLogStore is still required for the reporting queries.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithPasswordConfig overrides the Argon2id cost parameters.
func (b *Builder) WithPasswordConfig(cfg password.Config) *Builder {
	b.hashCfg = cfg
	return b
}

// Build validates the configuration and wiring and returns a ready
// Engine. The caller owns the returned engine and must Close it to drain
// the audit dispatcher.
func (b *Builder) Build() (*Engine, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, errors.New("authcore: user store is required")
	}
	if b.tokens == nil {
		return nil, errors.New("authcore: verification token store is required")
	}
	if b.logs == nil {
		return nil, errors.New("authcore: security log store is required")
	}
	if b.redis == nil {
		return nil, errors.New("authcore: redis client is required")
	}

	manager, err := jwt.NewManager(jwt.Config{
		Secret:            b.config.JWT.Secret,
		AccessTTL:         b.config.JWT.AccessTTL,
		RefreshMultiplier: b.config.JWT.RefreshMultiplier,
		Issuer:            b.config.JWT.Issuer,
		Leeway:            b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("authcore: building jwt manager: %w", err)
	}
	hasher, err := password.NewHasher(b.hashCfg)
	if err != nil {
		return nil, fmt.Errorf("authcore: building password hasher: %w", err)
	}

	engine := &Engine{
		config:  b.config,
		users:   b.users,
		tokens:  b.tokens,
		logs:    b.logs,
		cache:   cache.New(cache.NewRedisStore(b.redis, b.config.Cache.KeyPrefix), b.config.Cache.DefaultTTL),
		jwt:     manager,
		hasher:  hasher,
		metrics: NewMetrics(),
	}
	if b.config.Audit.Enabled {
		sink := b.sink
		if sink == nil {
			sink = NewStoreSink(b.logs)
		}
		engine.audit = newAuditDispatcher(sink, b.config.Audit.BufferSize, b.config.Audit.DropIfFull)
	}
	return engine, nil
}
