package middleware

import (
	"context"
	"net/http"

	"github.com/lucasandr3/authcore"
	"github.com/lucasandr3/authcore/jwt"
)

type principalKey struct{}

// Principal is the authenticated identity Guard attaches to the request
// context. Role and Permissions come from the user record, not the token,
// so permission edits take effect on the next request.
type Principal struct {
	UserID      string
	Email       string
	Name        string
	Role        string
	Permissions []string
}

// HasPermission reports whether perm is in the principal's set.
func (p *Principal) HasPermission(perm string) bool {
	for _, candidate := range p.Permissions {
		if candidate == perm {
			return true
		}
	}
	return false
}

// PrincipalFromContext returns the principal Guard stored, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok
}

// Guard authenticates requests with the engine: extract the bearer token,
// validate it (signature, expiry, blacklist), resolve the user, and stash
// a Principal in the context. Missing or invalid credentials short-circuit
// with 401 before the wrapped handler runs.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.ExtractFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w)
				return
			}
			ctx := authcore.WithClientIP(r.Context(), ClientIP(r))
			ctx = authcore.WithUserAgent(ctx, r.UserAgent())
			user, err := engine.UserFromToken(ctx, token)
			if err != nil {
				unauthorized(w)
				return
			}
			principal := &Principal{
				UserID:      user.ID,
				Email:       user.Email,
				Name:        user.Name,
				Role:        user.Role,
				Permissions: user.Permissions,
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, principalKey{}, principal)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}
