package resdeck

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/resdeck/resdeck/internal/gateway"
	"github.com/resdeck/resdeck/permission"
	"github.com/resdeck/resdeck/session"
)

// ErrBuilderConsumed is returned when Build is called twice on one Builder.
var ErrBuilderConsumed = errors.New("builder already consumed")

// Builder assembles a [Client]. Zero or more With calls, then Build once.
type Builder struct {
	cfg        Config
	httpClient *http.Client
	backend    session.Backend
	store      *session.Store
	policy     *permission.Policy
	built      bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.cfg = cfg
	return b
}

// WithBaseURL overrides only the API root.
func (b *Builder) WithBaseURL(base string) *Builder {
	b.cfg.BaseURL = base
	return b
}

// WithHTTPClient injects the transport. Timeouts live here; the client adds
// none of its own.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithSessionBackend selects where the session persists: memory, a file, or
// Redis. Default is memory-only.
func (b *Builder) WithSessionBackend(backend session.Backend) *Builder {
	b.backend = backend
	return b
}

// WithSessionStore injects a fully built store, for callers sharing one
// store across clients or substituting a test double. Takes precedence over
// WithSessionBackend.
func (b *Builder) WithSessionStore(store *session.Store) *Builder {
	b.store = store
	return b
}

// WithLogger sets the logger for the client, gateway, and session store.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.cfg.Logger = log
	return b
}

// WithPolicy replaces the default permission table.
func (b *Builder) WithPolicy(p *permission.Policy) *Builder {
	b.policy = p
	return b
}

// Build validates the configuration and assembles the Client. A Builder is
// single-use.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderConsumed
	}
	b.built = true

	base := strings.TrimRight(strings.TrimSpace(b.cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}
	b.cfg.BaseURL = base

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: b.cfg.HTTPTimeout}
	}

	store := b.store
	if store == nil {
		store = session.NewStore(b.backend, b.cfg.Logger)
	}

	policy := b.policy
	if policy == nil {
		policy = permission.Default()
	}

	gw := gateway.New(base, hc, store, b.cfg.Logger, gateway.Options{
		ProactiveRefresh: b.cfg.Gateway.ProactiveRefresh,
		RefreshSkew:      b.cfg.Gateway.RefreshSkew,
		UserAgent:        b.cfg.UserAgent,
	})

	return &Client{
		cfg:    b.cfg,
		store:  store,
		gw:     gw,
		policy: policy,
		log:    b.cfg.Logger,
	}, nil
}
