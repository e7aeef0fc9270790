package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStoreFirstCheckReservesKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if exists || cached != nil {
		t.Fatalf("expected a fresh key, got exists=%v cached=%s", exists, cached)
	}

	got, err := mr.Get("idempotency:key-1")
	if err != nil {
		t.Fatalf("expected reservation to be stored: %v", err)
	}
	if got != "processing" {
		t.Fatalf("expected processing marker, got %s", got)
	}
}

func TestIdempotencyStoreSecondCheckSeesReservation(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("first check failed: %v", err)
	}

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected the key to be seen as in flight")
	}
	if string(cached) != "processing" {
		t.Fatalf("expected processing marker, got %s", cached)
	}
}

func TestIdempotencyStoreUpdateAndReplay(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if err := store.Update(ctx, "key-1", []byte(`{"id":"cf-1"}`), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	exists, cached, err := store.CheckAndSet(ctx, "key-1", nil, time.Minute)
	if err != nil {
		t.Fatalf("replay check failed: %v", err)
	}
	if !exists || string(cached) != `{"id":"cf-1"}` {
		t.Fatalf("expected cached response, got exists=%v cached=%s", exists, cached)
	}
}

func TestIdempotencyStoreExpiredKeyIsFresh(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Second); err != nil {
		t.Fatalf("check failed: %v", err)
	}

	mr.FastForward(2 * time.Second)

	exists, _, err := store.CheckAndSet(ctx, "key-1", nil, time.Second)
	if err != nil {
		t.Fatalf("check after expiry failed: %v", err)
	}
	if exists {
		t.Fatalf("expected expired key to be treated as fresh")
	}
}
