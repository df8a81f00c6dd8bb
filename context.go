package authcore

import "context"

type contextKey int

const (
	contextKeyClientIP contextKey = iota
	contextKeyUserAgent
)

// WithClientIP returns a context carrying the caller's IP address so that
// engine flows can record it in security log entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKeyClientIP, ip)
}

// WithUserAgent returns a context carrying the caller's User-Agent header.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, contextKeyUserAgent, ua)
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP).(string)
	return ip
}

func userAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(contextKeyUserAgent).(string)
	return ua
}
