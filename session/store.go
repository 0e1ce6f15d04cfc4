package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Store holds the live session and keeps it in sync with a durable
// [Backend]. All methods are safe for concurrent use.
//
// Store methods never return errors: persistence trouble demotes the store
// to memory-only (logged at warn) and the caller proceeds. Correctness
// within the process does not depend on the backend at all.
type Store struct {
	log zerolog.Logger

	mu       sync.Mutex
	backend  Backend
	degraded bool
	loaded   bool
	cur      Session
	gen      uint64
	subs     []func(authenticated bool)
}

// NewStore returns a Store persisting through backend. A nil backend is
// equivalent to a fresh [MemoryBackend].
func NewStore(backend Backend, log zerolog.Logger) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{log: log, backend: backend}
}

// OnChange registers fn to run after every transition of the session's
// authenticated state (login, logout, failed refresh). Callbacks run on the
// mutating goroutine, outside the store lock; keep them short.
func (s *Store) OnChange(fn func(authenticated bool)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Load returns the current session, reading the backend on first use.
// An absent or corrupt record yields the empty session. No network I/O.
func (s *Store) Load(ctx context.Context) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.cur.clone()
}

// Set replaces all three session fields as a unit and persists them.
// A user supplied without an access token is dropped: the stored profile is
// only ever valid alongside the credential that produced it.
func (s *Store) Set(ctx context.Context, access, refresh string, user *User) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	if access == "" && user != nil {
		s.log.Warn().Msg("session: dropping user profile set without access token")
		user = nil
	}
	s.cur = Session{AccessToken: access, RefreshToken: refresh, User: user}.clone()
	s.persist(ctx)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// SetUser replaces only the cached profile, preserving both tokens. Used
// after a profile fetch re-validates the session. Ignored when no access
// token is present.
func (s *Store) SetUser(ctx context.Context, user *User) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	if s.cur.AccessToken == "" {
		s.mu.Unlock()
		return
	}
	s.cur.User = user
	s.cur = s.cur.clone()
	s.persist(ctx)
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// SetAccessToken replaces only the access token, preserving the refresh
// token and user.
func (s *Store) SetAccessToken(ctx context.Context, access string) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.cur.AccessToken = access
	s.persist(ctx)
	s.mu.Unlock()
}

// Snapshot returns the current tokens together with the generation they
// belong to. Callers performing a refresh capture the generation first and
// hand it back to [Store.ApplyRefresh].
func (s *Store) Snapshot(ctx context.Context) (access, refresh string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.cur.AccessToken, s.cur.RefreshToken, s.gen
}

// Generation returns the current session generation. Clear advances it.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// ApplyRefresh writes the outcome of a token refresh, but only if the
// session generation is still the one the refresh started from. A refresh
// that lost a race with Clear is discarded and ApplyRefresh returns false —
// a session the user ended stays ended. An empty newRefresh retains the
// existing refresh token (the backend reissues one only sometimes).
func (s *Store) ApplyRefresh(ctx context.Context, gen uint64, access, newRefresh string) bool {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Debug().Msg("session: discarding refresh result for cleared session")
		return false
	}
	s.cur.AccessToken = access
	if newRefresh != "" {
		s.cur.RefreshToken = newRefresh
	}
	s.persist(ctx)
	s.mu.Unlock()
	return true
}

// Clear wipes the session from memory and from the backend, advances the
// generation, and notifies subscribers.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.loaded = true
	s.cur = Session{}
	s.gen++
	if !s.degraded {
		if err := s.backend.Delete(ctx); err != nil {
			s.demote(err)
		}
	}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
}

// ensureLoaded hydrates s.cur from the backend once. Caller holds s.mu.
func (s *Store) ensureLoaded(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.degraded {
		return
	}
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return
	}
	if err != nil {
		s.demote(err)
		return
	}
	sess, err := Decode(data)
	if err != nil {
		s.log.Warn().Err(err).Msg("session: discarding unreadable record")
		if derr := s.backend.Delete(ctx); derr != nil {
			s.demote(derr)
		}
		return
	}
	s.cur = sess
}

// persist writes the current session through the backend. An empty session
// deletes the record instead. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) {
	if s.degraded {
		return
	}
	if s.cur == (Session{}) {
		if err := s.backend.Delete(ctx); err != nil {
			s.demote(err)
		}
		return
	}
	data, err := Encode(s.cur)
	if err != nil {
		s.demote(err)
		return
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.demote(err)
	}
}

// demote switches the store to memory-only after a backend failure.
// Caller holds s.mu.
func (s *Store) demote(err error) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.log.Warn().Err(err).Msg("session: backend unavailable, continuing memory-only")
}

// notifyLocked snapshots subscribers and state under the lock and returns a
// closure that fires them after it is released.
func (s *Store) notifyLocked() func() {
	if len(s.subs) == 0 {
		return func() {}
	}
	subs := make([]func(bool), len(s.subs))
	copy(subs, s.subs)
	authenticated := s.cur.Authenticated()
	return func() {
		for _, fn := range subs {
			fn(authenticated)
		}
	}
}
