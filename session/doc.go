// Package session owns the client's credential state: the access/refresh
// token pair and the cached user profile, persisted durably across process
// restarts through a pluggable [Backend].
//
// The three fields live and die as a unit. Every backend write is one
// serialized record — there is no state where an access token survives a
// restart without its user, or vice versa. Clearing bumps a generation
// counter so a refresh that completes after logout cannot resurrect the
// session it raced with.
//
// Persistence is best-effort by contract: a failing backend demotes the
// store to memory-only for its lifetime instead of surfacing errors to
// callers. Within the process everything still behaves correctly; only
// durability is lost.
package session
