package gateway

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a correlation ID to ctx. The gateway stamps it on
// every outbound request as X-Request-ID; absent one, it generates a UUID
// per call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
