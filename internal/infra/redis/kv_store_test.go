package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKVStore(client), mr
}

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	if err := store.Set(ctx, "lernapp:app-state", []byte(`{"progress":{}}`)); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !mr.Exists("lernapp:app-state") {
		t.Fatalf("expected redis key to be set")
	}

	data, err := store.Get(ctx, "lernapp:app-state")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(data) != `{"progress":{}}` {
		t.Fatalf("unexpected value: %q", data)
	}
}

func TestKVStoreMissReturnsNilNil(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	data, err := store.Get(ctx, "missing")
	if err != nil || data != nil {
		t.Fatalf("expected (nil, nil) on miss, got (%v, %v)", data, err)
	}
}

func TestKVStoreDeleteAndKeys(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	if err := store.Set(ctx, "a", []byte("1")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set(ctx, "b", []byte("2")); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("expected [b], got %v", keys)
	}
}

func TestKVStorePing(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	mr.Close()
	if err := store.Ping(ctx); err == nil {
		t.Fatalf("expected ping to fail after server shutdown")
	}
}
