package resdeck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/resdeck/resdeck/forms"
	"github.com/resdeck/resdeck/internal/gateway"
	"github.com/resdeck/resdeck/permission"
	"github.com/resdeck/resdeck/session"
)

// Client is the entry point for every backend operation. Construct one via
// [Builder.Build]; after that it is safe for concurrent use and should be
// shared, not recreated per call.
type Client struct {
	cfg    Config
	store  *session.Store
	gw     *gateway.Gateway
	policy *permission.Policy
	log    zerolog.Logger
}

// Session exposes the underlying store, mainly so callers can register
// [session.Store.OnChange] hooks for UI state.
func (c *Client) Session() *session.Store {
	return c.store
}

// Policy returns the permission table the client gates with.
func (c *Client) Policy() *permission.Policy {
	return c.policy
}

// Can reports whether the currently stored user may perform action. Pure
// lookup, no network I/O; an unauthenticated session can do nothing.
func (c *Client) Can(ctx context.Context, action permission.Action) bool {
	return c.policy.Allowed(c.store.Load(ctx).Role(), action)
}

// Login authenticates with email and password and populates the session.
// Rejections come back as *ValidationError keyed by field, matching what
// the backend's login endpoint returns.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	in := forms.LoginInput{Email: email, Password: password}
	if verr := forms.Validate(in); verr != nil {
		return nil, verr
	}
	return c.authenticate(ctx, "/auth/login/", in)
}

// Register creates an account and, on success, logs the new user straight
// in the way the backend's register endpoint does. Input is validated
// locally first; local and backend rejections share one error shape.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if verr := forms.Validate(in); verr != nil {
		return nil, verr
	}
	return c.authenticate(ctx, "/auth/register/", in)
}

// authenticate posts a credential payload to path and installs the returned
// token pair and profile.
func (c *Client) authenticate(ctx context.Context, path string, in any) (*User, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode auth payload: %w", err)
	}
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   payload,
		Public: true,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, body)
	}

	var out authPayload
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if out.Access == "" || out.User == nil {
		return nil, fmt.Errorf("auth response missing token or user")
	}

	c.store.Set(ctx, out.Access, out.Refresh, out.User)
	c.log.Info().Str("username", out.User.Username).Str("role", string(out.User.Role)).Msg("client: authenticated")
	return out.User, nil
}

// Logout tells the backend to invalidate the refresh token, then clears the
// local session. The server call is best-effort: the local clear happens no
// matter what the backend says, which is why Logout returns nothing.
func (c *Client) Logout(ctx context.Context) {
	sess := c.store.Load(ctx)
	if sess.RefreshToken != "" {
		payload, _ := json.Marshal(map[string]string{"refresh": sess.RefreshToken})
		resp, err := c.gw.Do(ctx, &gateway.Request{
			Method: http.MethodPost,
			Path:   "/auth/logout/",
			Body:   payload,
		})
		if err != nil {
			c.log.Debug().Err(err).Msg("client: best-effort logout call failed")
		} else {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}
	c.store.Clear(ctx)
	c.log.Info().Msg("client: logged out")
}

// Profile fetches the current user from the backend and updates the cached
// copy in the session.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	resp, err := c.gw.Do(ctx, &gateway.Request{
		Method: http.MethodGet,
		Path:   "/auth/profile/",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read profile response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp.StatusCode, body)
	}

	var u session.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	c.store.SetUser(ctx, &u)
	return &u, nil
}

// ValidateSession is the startup check: if a persisted session exists, the
// profile endpoint decides whether it is still good. A session that fails
// validation — for any reason, including the network being down — is
// destroyed rather than silently trusted. Returns (nil, nil) when there was
// no session to validate.
func (c *Client) ValidateSession(ctx context.Context) (*User, error) {
	if !c.store.Load(ctx).Authenticated() {
		return nil, nil
	}
	u, err := c.Profile(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("client: stored session failed validation, clearing")
		c.store.Clear(ctx)
		return nil, err
	}
	return u, nil
}

// gate short-circuits an operation the stored role is not allowed to
// perform. UX convenience only — the backend enforces independently.
func (c *Client) gate(ctx context.Context, action permission.Action) error {
	role := c.store.Load(ctx).Role()
	if !c.policy.Allowed(role, action) {
		c.log.Debug().Str("role", string(role)).Str("action", string(action)).Msg("client: denied locally")
		return fmt.Errorf("%w: %s", ErrPermissionDenied, action)
	}
	return nil
}
