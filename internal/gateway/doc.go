// Package gateway implements the authenticated request path: bearer
// attachment, expired-credential detection, single-flight token refresh,
// and the one-shot retry that bounds every call to at most two requests to
// the original endpoint plus one refresh.
//
// The package is internal coordination; the public surface re-exports its
// sentinel errors and nothing else.
package gateway
