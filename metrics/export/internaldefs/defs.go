package internaldefs

import (
	"github.com/lucasandr3/authcore"
)

// CounterDef binds one engine counter to its exported metric name. Shared
// by the Prometheus and OTel exporters so both expose identical series.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported engine counter.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricLoginSuccess, Name: "authcore_login_success_total", Help: "Successful login attempts."},
	{ID: authcore.MetricLoginFailure, Name: "authcore_login_failure_total", Help: "Failed login attempts."},
	{ID: authcore.MetricLoginLockout, Name: "authcore_login_lockout_total", Help: "Login attempts rejected by the failed-attempt lockout."},
	{ID: authcore.MetricRegisterSuccess, Name: "authcore_register_success_total", Help: "Successful registrations."},
	{ID: authcore.MetricRegisterConflict, Name: "authcore_register_conflict_total", Help: "Registrations rejected for a duplicate email."},
	{ID: authcore.MetricRefreshSuccess, Name: "authcore_refresh_success_total", Help: "Successful token refreshes."},
	{ID: authcore.MetricRefreshFailure, Name: "authcore_refresh_failure_total", Help: "Failed token refreshes."},
	{ID: authcore.MetricLogout, Name: "authcore_logout_total", Help: "Logout operations."},
	{ID: authcore.MetricEmailVerificationRequested, Name: "authcore_email_verification_requested_total", Help: "Email verification tokens issued."},
	{ID: authcore.MetricEmailVerificationConfirmed, Name: "authcore_email_verification_confirmed_total", Help: "Email verifications confirmed."},
	{ID: authcore.MetricEmailVerificationRejected, Name: "authcore_email_verification_rejected_total", Help: "Email verification attempts rejected."},
	{ID: authcore.MetricPasswordResetRequested, Name: "authcore_password_reset_requested_total", Help: "Password reset tokens issued."},
	{ID: authcore.MetricPasswordResetConfirmed, Name: "authcore_password_reset_confirmed_total", Help: "Password resets confirmed."},
	{ID: authcore.MetricPasswordResetRejected, Name: "authcore_password_reset_rejected_total", Help: "Password reset attempts rejected."},
	{ID: authcore.MetricTokenBlacklisted, Name: "authcore_token_blacklisted_total", Help: "Access tokens blacklisted."},
}

// AuditDroppedName is the series exposing dispatcher backpressure drops.
const AuditDroppedName = "authcore_audit_dropped_total"

// AuditDroppedHelp documents AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
