package gateway

import "errors"

var (
	// ErrReauthenticationRequired is returned when the access token is
	// invalid and could not be refreshed. The session has already been
	// cleared; the caller must send the user back through login.
	ErrReauthenticationRequired = errors.New("reauthentication required")

	// ErrNetworkFailure wraps transport-level failures: the request never
	// produced a response. Safe to suggest a retry to the user; the gateway
	// itself never retries these.
	ErrNetworkFailure = errors.New("network failure")
)
