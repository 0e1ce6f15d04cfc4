package resdeck

import (
	"context"

	"github.com/resdeck/resdeck/internal/gateway"
)

// WithRequestID attaches a correlation ID to ctx. Every request issued under
// that context carries it as X-Request-ID; without one, the client generates
// a fresh UUID per request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return gateway.WithRequestID(ctx, id)
}
