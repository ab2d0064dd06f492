package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client)
}

func TestSessionStore_EmptyReads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.ReadIdentity(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if _, err := store.ReadToken(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteIdentity(ctx, []byte(`{"id":"u_1"}`)); err != nil {
		t.Fatalf("write identity: %v", err)
	}
	if err := store.WriteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("write token: %v", err)
	}

	blob, err := store.ReadIdentity(ctx)
	if err != nil {
		t.Fatalf("read identity: %v", err)
	}
	if string(blob) != `{"id":"u_1"}` {
		t.Fatalf("unexpected blob: %s", blob)
	}

	token, err := store.ReadToken(ctx)
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestSessionStore_TokenUpdatesIndependently(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.WriteIdentity(ctx, []byte(`{"id":"u_1"}`)); err != nil {
		t.Fatalf("write identity: %v", err)
	}
	if err := store.WriteToken(ctx, "tok-1"); err != nil {
		t.Fatalf("write token: %v", err)
	}
	if err := store.WriteToken(ctx, "tok-2"); err != nil {
		t.Fatalf("refresh token: %v", err)
	}

	token, err := store.ReadToken(ctx)
	if err != nil || token != "tok-2" {
		t.Fatalf("expected refreshed token, got %s (%v)", token, err)
	}
	if blob, err := store.ReadIdentity(ctx); err != nil || string(blob) != `{"id":"u_1"}` {
		t.Fatalf("expected blob untouched, got %s (%v)", blob, err)
	}
}

func TestSessionStore_ClearRemovesBothKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_ = store.WriteIdentity(ctx, []byte(`{"id":"u_1"}`))
	_ = store.WriteToken(ctx, "tok-1")

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := store.ReadIdentity(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected identity gone, got %v", err)
	}
	if _, err := store.ReadToken(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected token gone, got %v", err)
	}
}
