package resdeck

import (
	"time"

	"github.com/rs/zerolog"
)

// Config defines the tunables for a [Client]. Construct via
// [DefaultConfig] and adjust, or supply wholesale with [Builder.WithConfig].
// Config values are copied at Build time and treated as immutable after.
type Config struct {
	// BaseURL is the API root, e.g. "https://deck.example.com/api".
	// A trailing slash is trimmed.
	BaseURL string

	// HTTPTimeout applies to the default http.Client when none is injected.
	// All timeout behavior is the transport's; the gateway adds none.
	HTTPTimeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Gateway tunes the refresh state machine.
	Gateway GatewayConfig

	// Logger receives structured debug/warn events. Defaults to a no-op
	// logger; wire a real one for diagnostics.
	Logger zerolog.Logger
}

/*
====================================
GATEWAY CONFIG
====================================
*/

// GatewayConfig defines the knobs of the authenticated request path.
type GatewayConfig struct {
	// ProactiveRefresh peeks at the access token's JWT exp claim before
	// sending and refreshes first when it is already stale, saving the
	// round-trip that would 401. Opaque tokens are unaffected.
	ProactiveRefresh bool

	// RefreshSkew counts a token expiring within this window as stale.
	RefreshSkew time.Duration
}

// DefaultConfig returns the configuration used when the builder is given
// nothing else.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:8000/api",
		HTTPTimeout: 15 * time.Second,
		UserAgent:   "resdeck-go/1",
		Gateway: GatewayConfig{
			ProactiveRefresh: true,
			RefreshSkew:      10 * time.Second,
		},
		Logger: zerolog.Nop(),
	}
}
