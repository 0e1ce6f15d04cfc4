// Package resdeck is the Go client for the ResDeck resource-management API:
// JWT login/registration, a durably persisted session, permission-gated
// resource CRUD, and transparent recovery from expired access tokens.
//
// The package is designed around one hard problem — the session/token
// lifecycle. Every authenticated call runs a bounded state machine: attach
// the current bearer token, detect a 401, refresh exactly once (shared
// between concurrent callers), retry the original request exactly once, and
// otherwise surface a definitive outcome. A call can never cost more than
// two requests to its endpoint plus one refresh.
//
// # Architecture boundaries
//
// resdeck is the public surface. It exposes [Client], [Builder], [Config],
// value types, and sentinel errors. Session state lives in
// [github.com/resdeck/resdeck/session], the role/action table in
// [github.com/resdeck/resdeck/permission], payload validation in
// [github.com/resdeck/resdeck/forms]. The request state machine lives under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Treat its permission checks as a security boundary. They exist to
//     skip requests the backend would reject; the backend enforces
//     authorization independently.
//   - Retry beyond the refresh+retry bound, or add backoff. Timeouts belong
//     to the injected http.Client.
//   - Surface storage failures to callers. Session persistence degrades to
//     memory-only rather than failing an operation.
package resdeck
