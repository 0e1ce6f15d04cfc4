package resdeck

import (
	"errors"

	"github.com/resdeck/resdeck/internal/gateway"
)

var (
	// ErrReauthenticationRequired means the access token was rejected and
	// could not be refreshed (or no refresh token existed). The session has
	// been cleared; send the user back through [Client.Login].
	ErrReauthenticationRequired = gateway.ErrReauthenticationRequired

	// ErrNetworkFailure wraps transport-level failures where no response
	// was obtained. Suggest a retry to the user; the client itself does not
	// retry these.
	ErrNetworkFailure = gateway.ErrNetworkFailure

	// ErrPermissionDenied is returned when the local policy check fails
	// before any request is sent. No network call was made.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when the backend reports 404 for a resource.
	ErrNotFound = errors.New("resource not found")

	// ErrBaseURLRequired is returned by [Builder.Build] when the base URL
	// is empty.
	ErrBaseURLRequired = errors.New("base URL required")
)
