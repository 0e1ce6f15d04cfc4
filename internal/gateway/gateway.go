package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const refreshPath = "/auth/token/refresh/"

// TokenSource is the session state the gateway reads and writes. Implemented
// by session.Store; tests substitute doubles.
type TokenSource interface {
	// Snapshot returns the current tokens and the generation they belong to.
	Snapshot(ctx context.Context) (access, refresh string, gen uint64)
	// ApplyRefresh stores a refresh outcome unless the generation has moved
	// on (session cleared mid-flight). Reports whether the write landed.
	ApplyRefresh(ctx context.Context, gen uint64, access, newRefresh string) bool
	// Clear wipes the session.
	Clear(ctx context.Context)
}

// Options tune gateway behavior beyond the fixed state machine.
type Options struct {
	// ProactiveRefresh peeks at JWT expiry before sending and refreshes
	// first when the token is already stale, saving a doomed round-trip.
	ProactiveRefresh bool
	// RefreshSkew widens the staleness window: a token expiring within the
	// skew counts as expired. Only meaningful with ProactiveRefresh.
	RefreshSkew time.Duration

	// UserAgent is stamped on every outbound request when set.
	UserAgent string
}

// Request describes one call through the gateway. Body carries the already
// marshaled JSON payload so the request can be replayed on retry.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
	// Public skips bearer attachment and the refresh state machine.
	// Login, register, and refresh itself go through here.
	Public bool
}

// Gateway performs authenticated calls against the backend. Per call it
// issues at most two requests to the original endpoint plus one refresh,
// and concurrent calls hitting an expired token share a single in-flight
// refresh rather than racing their own.
type Gateway struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    zerolog.Logger
	opts   Options

	metrics Metrics

	mu      sync.Mutex
	pending *refreshAttempt
}

type refreshAttempt struct {
	done chan struct{}
	ok   bool
}

// New returns a Gateway for the API rooted at base (no trailing slash).
func New(base string, client *http.Client, tokens TokenSource, log zerolog.Logger, opts Options) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{base: base, http: client, tokens: tokens, log: log, opts: opts}
}

// Do runs the request through the expired-token state machine and returns
// either a response (any status — callers interpret non-401 outcomes) or an
// error: ErrNetworkFailure for transport trouble, ErrReauthenticationRequired
// when credentials are gone for good. The response body is the caller's to
// close.
func (g *Gateway) Do(ctx context.Context, req *Request) (*http.Response, error) {
	g.metrics.inc(MetricRequests)
	if req.Public {
		resp, err := g.send(ctx, req, "")
		if err != nil {
			return nil, g.netErr(err)
		}
		return resp, nil
	}

	access, refreshTok, _ := g.tokens.Snapshot(ctx)

	refreshed := false
	if g.opts.ProactiveRefresh && refreshTok != "" && tokenStale(access, g.opts.RefreshSkew, time.Now()) {
		g.log.Debug().Str("path", req.Path).Msg("gateway: access token stale, refreshing before send")
		ok, err := g.refreshShared(ctx)
		if err != nil {
			return nil, g.netErr(err)
		}
		if !ok {
			return nil, g.reauth()
		}
		refreshed = true
		access, _, _ = g.tokens.Snapshot(ctx)
	}

	resp, err := g.send(ctx, req, access)
	if err != nil {
		return nil, g.netErr(err)
	}
	if resp.StatusCode != http.StatusUnauthorized || refreshed {
		// A 401 after this call's refresh is final: no recursive loop.
		return resp, nil
	}
	g.metrics.inc(MetricUnauthorized)
	drainAndClose(resp.Body)

	// Re-read the store: another call may already have refreshed.
	freshAccess, refreshTok, _ := g.tokens.Snapshot(ctx)
	if refreshTok == "" {
		g.log.Warn().Str("path", req.Path).Msg("gateway: unauthorized with no refresh token, clearing session")
		g.tokens.Clear(ctx)
		return nil, g.reauth()
	}
	if freshAccess == access {
		ok, err := g.refreshShared(ctx)
		if err != nil {
			return nil, g.netErr(err)
		}
		if !ok {
			return nil, g.reauth()
		}
	}

	g.metrics.inc(MetricRetries)
	access, _, _ = g.tokens.Snapshot(ctx)
	retry, err := g.send(ctx, req, access)
	if err != nil {
		return nil, g.netErr(err)
	}
	// Whatever the second attempt returned is the final result.
	return retry, nil
}

// send builds and issues one HTTP request. Caller-supplied headers win over
// defaults; the bearer header is attached only when the caller did not
// explicitly set one.
func (g *Gateway) send(ctx context.Context, req *Request, access string) (*http.Response, error) {
	u := g.base + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	hreq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if len(req.Body) > 0 {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if g.opts.UserAgent != "" {
		hreq.Header.Set("User-Agent", g.opts.UserAgent)
	}
	for k, vs := range req.Header {
		hreq.Header[k] = vs
	}
	if access != "" && hreq.Header.Get("Authorization") == "" {
		hreq.Header.Set("Authorization", "Bearer "+access)
	}
	if hreq.Header.Get("X-Request-ID") == "" {
		id := requestIDFromContext(ctx)
		if id == "" {
			id = uuid.NewString()
		}
		hreq.Header.Set("X-Request-ID", id)
	}

	resp, err := g.http.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// refreshShared runs at most one refresh at a time; concurrent callers wait
// on the in-flight attempt and adopt its outcome. The returned error is
// only ever a context error from waiting.
func (g *Gateway) refreshShared(ctx context.Context) (bool, error) {
	g.mu.Lock()
	if p := g.pending; p != nil {
		g.mu.Unlock()
		g.metrics.inc(MetricRefreshShared)
		select {
		case <-p.done:
			return p.ok, nil
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	p := &refreshAttempt{done: make(chan struct{})}
	g.pending = p
	g.mu.Unlock()

	p.ok = g.refresh(ctx)

	g.mu.Lock()
	g.pending = nil
	g.mu.Unlock()
	close(p.done)
	return p.ok, nil
}

// refresh issues exactly one refresh call. Any failure — transport, status,
// malformed body — clears the session; there is never a second attempt.
// Success is written back only if the session generation is unchanged.
func (g *Gateway) refresh(ctx context.Context) bool {
	_, refreshTok, gen := g.tokens.Snapshot(ctx)
	if refreshTok == "" {
		return g.refreshFailed(ctx)
	}

	payload, err := json.Marshal(map[string]string{"refresh": refreshTok})
	if err != nil {
		return g.refreshFailed(ctx)
	}
	resp, err := g.send(ctx, &Request{
		Method: http.MethodPost,
		Path:   refreshPath,
		Body:   payload,
		Public: true,
	}, "")
	if err != nil {
		g.log.Warn().Err(err).Msg("gateway: token refresh transport failure, clearing session")
		return g.refreshFailed(ctx)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn().Int("status", resp.StatusCode).Msg("gateway: token refresh rejected, clearing session")
		return g.refreshFailed(ctx)
	}

	var out struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Access == "" {
		g.log.Warn().Msg("gateway: token refresh returned unusable body, clearing session")
		return g.refreshFailed(ctx)
	}

	if !g.tokens.ApplyRefresh(ctx, gen, out.Access, out.Refresh) {
		// Session was cleared while the refresh was in flight; it stays
		// cleared and this call surfaces the re-auth signal.
		g.metrics.inc(MetricRefreshFailure)
		return false
	}
	g.metrics.inc(MetricRefreshSuccess)
	g.log.Debug().Msg("gateway: access token refreshed")
	return true
}

// refreshFailed clears the session, counts the failure, and reports it.
func (g *Gateway) refreshFailed(ctx context.Context) bool {
	g.tokens.Clear(ctx)
	g.metrics.inc(MetricRefreshFailure)
	return false
}

// MetricsSnapshot copies the gateway's counters.
func (g *Gateway) MetricsSnapshot() map[MetricID]uint64 {
	return g.metrics.Snapshot()
}

func (g *Gateway) netErr(err error) error {
	g.metrics.inc(MetricNetworkFailure)
	return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
}

func (g *Gateway) reauth() error {
	g.metrics.inc(MetricReauthRequired)
	return ErrReauthenticationRequired
}

func drainAndClose(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
