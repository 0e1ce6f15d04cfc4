package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/resdeck/resdeck/permission"
)

func testUser() *User {
	return &User{
		ID:        7,
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		Role:      permission.RoleStaff,
	}
}

func TestSetLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	backends := map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   NewFileBackend(filepath.Join(t.TempDir(), "session.json")),
	}

	for name, backend := range backends {
		store := NewStore(backend, zerolog.Nop())
		store.Set(ctx, "acc-1", "ref-1", testUser())

		got := store.Load(ctx)
		if got.AccessToken != "acc-1" || got.RefreshToken != "ref-1" {
			t.Fatalf("%s: tokens did not round-trip: %+v", name, got)
		}
		if got.User == nil || got.User.Email != "alice@example.com" || got.User.Role != permission.RoleStaff {
			t.Fatalf("%s: user did not round-trip: %+v", name, got.User)
		}

		// A second store over the same backend must see the persisted state.
		reopened := NewStore(backend, zerolog.Nop())
		again := reopened.Load(ctx)
		if again.AccessToken != "acc-1" || again.User == nil || again.User.Username != "alice" {
			t.Fatalf("%s: persisted state lost across stores: %+v", name, again)
		}
	}
}

func TestClearEmptiesEverything(t *testing.T) {
	ctx := context.Background()
	backend := NewFileBackend(filepath.Join(t.TempDir(), "session.json"))
	store := NewStore(backend, zerolog.Nop())

	store.Set(ctx, "acc", "ref", testUser())
	store.Clear(ctx)

	if got := store.Load(ctx); got != (Session{}) {
		t.Fatalf("expected empty session after clear, got %+v", got)
	}
	if _, err := backend.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected backend record gone, got err=%v", err)
	}
	if got := NewStore(backend, zerolog.Nop()).Load(ctx); got.Authenticated() {
		t.Fatal("cleared session came back after reopen")
	}
}

func TestApplyRefreshGenerationGuard(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), zerolog.Nop())
	store.Set(ctx, "acc-old", "ref-old", testUser())

	_, _, gen := store.Snapshot(ctx)

	// Logout lands while the refresh is in flight.
	store.Clear(ctx)

	if store.ApplyRefresh(ctx, gen, "acc-new", "") {
		t.Fatal("refresh against a cleared session must be discarded")
	}
	if got := store.Load(ctx); got.Authenticated() || got.AccessToken != "" {
		t.Fatalf("cleared session resurrected: %+v", got)
	}
}

func TestApplyRefreshKeepsRefreshTokenUnlessReissued(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), zerolog.Nop())
	store.Set(ctx, "acc-old", "ref-old", testUser())
	_, _, gen := store.Snapshot(ctx)

	if !store.ApplyRefresh(ctx, gen, "acc-new", "") {
		t.Fatal("refresh should apply")
	}
	got := store.Load(ctx)
	if got.AccessToken != "acc-new" || got.RefreshToken != "ref-old" {
		t.Fatalf("expected new access + retained refresh, got %+v", got)
	}
	if got.User == nil {
		t.Fatal("refresh must preserve the user")
	}

	_, _, gen = store.Snapshot(ctx)
	if !store.ApplyRefresh(ctx, gen, "acc-3", "ref-new") {
		t.Fatal("refresh should apply")
	}
	if got := store.Load(ctx); got.RefreshToken != "ref-new" {
		t.Fatalf("reissued refresh token not stored: %+v", got)
	}
}

func TestSetWithoutAccessDropsUser(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), zerolog.Nop())
	store.Set(ctx, "", "", testUser())

	if got := store.Load(ctx); got.User != nil {
		t.Fatalf("user must not be stored without an access token: %+v", got)
	}
}

func TestOnChangeNotifications(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), zerolog.Nop())

	var states []bool
	store.OnChange(func(authenticated bool) {
		states = append(states, authenticated)
	})

	store.Set(ctx, "acc", "ref", testUser())
	store.Clear(ctx)

	if len(states) != 2 || !states[0] || states[1] {
		t.Fatalf("expected [true false], got %v", states)
	}
}

func TestDegradesToMemoryOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	// Point the file backend at a path whose parent is a regular file so
	// every write fails.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	store := NewStore(NewFileBackend(filepath.Join(blocker, "session.json")), zerolog.Nop())

	store.Set(ctx, "acc", "ref", testUser())

	got := store.Load(ctx)
	if !got.Authenticated() || got.AccessToken != "acc" {
		t.Fatalf("memory-only store must still hold state: %+v", got)
	}

	store.Clear(ctx)
	if store.Load(ctx).Authenticated() {
		t.Fatal("memory-only clear failed")
	}
}

func TestCorruptRecordStartsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(`{"v":99,"access_token":"x"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	store := NewStore(NewFileBackend(path), zerolog.Nop())
	if got := store.Load(ctx); got != (Session{}) {
		t.Fatalf("corrupt record must yield empty session, got %+v", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("corrupt record should have been discarded")
	}
}
