package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBackend(client, ""), mr
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend, _ := newRedisBackend(t)
	store := NewStore(backend, zerolog.Nop())

	store.Set(ctx, "acc-r", "ref-r", testUser())

	reopened := NewStore(backend, zerolog.Nop())
	got := reopened.Load(ctx)
	if got.AccessToken != "acc-r" || got.RefreshToken != "ref-r" {
		t.Fatalf("tokens did not survive redis round-trip: %+v", got)
	}
	if got.User == nil || got.User.Username != "alice" {
		t.Fatalf("user did not survive redis round-trip: %+v", got.User)
	}
}

func TestRedisClearDeletesKey(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)
	store := NewStore(backend, zerolog.Nop())

	store.Set(ctx, "acc", "ref", testUser())
	if !mr.Exists(defaultRedisKey) {
		t.Fatal("expected session key in redis")
	}

	store.Clear(ctx)
	if mr.Exists(defaultRedisKey) {
		t.Fatal("clear must delete the redis key")
	}
	if _, err := backend.Read(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestRedisUnavailableDegradesToMemory(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t)
	store := NewStore(backend, zerolog.Nop())

	mr.Close()

	store.Set(ctx, "acc", "ref", testUser())
	if got := store.Load(ctx); !got.Authenticated() {
		t.Fatalf("store must stay usable without redis: %+v", got)
	}
}
