// Package authcore is an embeddable authentication and verification
// engine: credential login with failed-attempt lockout, JWT access and
// refresh tokens, email verification and password reset token flows, a
// Redis-backed token blacklist, an async security audit log, and HTTP
// authorization middleware.
//
// The host application supplies persistence by implementing UserStore,
// VerificationTokenStore, and SecurityLogStore (ready-made Postgres and
// in-memory implementations live under store/), plus a Redis client for
// the attempt cache. Engines are assembled with the Builder:
//
//	engine, err := authcore.New().
//		WithConfig(cfg).
//		WithUserStore(users).
//		WithVerificationTokenStore(tokens).
//		WithSecurityLogStore(logs).
//		WithRedis(rdb).
//		Build()
//
// Every credential failure surfaces as ErrUnauthorized regardless of
// cause; the concrete reason is only recorded in the security log.
package authcore
