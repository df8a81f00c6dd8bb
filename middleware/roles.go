package middleware

import "net/http"

// RequireRoles gates requests on the principal's role: 401 when no
// principal is present (Guard must run first), 403 when the role is not
// in the allow list. With no roles configured the gate passes everything
// through.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissions gates requests on the principal holding every listed
// permission. Same 401/403 rules as RequireRoles; an empty list passes
// everything through.
func RequirePermissions(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			for _, perm := range perms {
				if !principal.HasPermission(perm) {
					forbidden(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin gates requests to the admin role.
func Admin() func(http.Handler) http.Handler {
	return RequireRoles("admin")
}

// Moderator gates requests to moderators and admins.
func Moderator() func(http.Handler) http.Handler {
	return RequireRoles("admin", "moderator")
}
