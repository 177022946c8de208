// Package requestctx carries per-request values across layers that do not
// depend on gin.
package requestctx

import "context"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	clientIPKey
)

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request ID, or empty.
func RequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// WithClientIP returns a context carrying the caller's IP address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return withValue(ctx, clientIPKey, ip)
}

// ClientIP returns the caller's IP address, or empty.
func ClientIP(ctx context.Context) string {
	return stringValue(ctx, clientIPKey)
}

func withValue(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
