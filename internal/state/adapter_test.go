package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/infra/memory"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := state.NewAdapter(ctx, memory.NewKVStore(0), "test:", 1024, nil)

	if err := adapter.Set(ctx, "greeting", map[string]string{"hello": "welt"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	var out map[string]string
	if !adapter.Get(ctx, "greeting", &out) {
		t.Fatalf("expected value to be found")
	}
	if out["hello"] != "welt" {
		t.Fatalf("unexpected value: %+v", out)
	}
	if !adapter.Has(ctx, "greeting") {
		t.Fatalf("expected Has to report true")
	}
	if adapter.Has(ctx, "missing") {
		t.Fatalf("expected Has to report false for missing key")
	}
}

func TestAdapterGetNeverErrors(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore(0)
	adapter := state.NewAdapter(ctx, kv, "test:", 1024, nil)

	// Corrupt the stored bytes directly.
	if err := kv.Set(ctx, "test:broken", []byte("{not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	var out map[string]any
	if adapter.Get(ctx, "broken", &out) {
		t.Fatalf("expected corrupt value to read as a miss")
	}
}

func TestAdapterQuotaKeepsFallback(t *testing.T) {
	ctx := context.Background()
	// Capacity so small that the first write already exceeds it.
	adapter := state.NewAdapter(ctx, memory.NewKVStore(4), "test:", 4, nil)

	err := adapter.Set(ctx, "big", map[string]string{"k": "a long enough value"})
	if !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}

	// The value must still be readable from the in-memory fallback.
	var out map[string]string
	if !adapter.Get(ctx, "big", &out) {
		t.Fatalf("expected fallback read to succeed")
	}
	if out["k"] != "a long enough value" {
		t.Fatalf("unexpected fallback value: %+v", out)
	}
}

func TestAdapterUnavailableStoreIsSilent(t *testing.T) {
	ctx := context.Background()
	adapter := state.NewAdapter(ctx, nil, "test:", 1024, nil)

	if adapter.Available() {
		t.Fatalf("nil store must not report available")
	}
	if err := adapter.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("fallback-only write must not error: %v", err)
	}
	var out string
	if !adapter.Get(ctx, "k", &out) || out != "v" {
		t.Fatalf("expected fallback round trip, got %q", out)
	}
}

func TestAdapterClearScopedToPrefix(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore(0)
	adapter := state.NewAdapter(ctx, kv, "test:", 1024, nil)

	if err := adapter.Set(ctx, "mine", "x"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := kv.Set(ctx, "other:foreign", []byte(`"y"`)); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := adapter.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if adapter.Has(ctx, "mine") {
		t.Fatalf("expected namespaced key to be cleared")
	}
	data, err := kv.Get(ctx, "other:foreign")
	if err != nil || data == nil {
		t.Fatalf("expected foreign key to survive, got %v %v", data, err)
	}
}

func TestAdapterUsageReport(t *testing.T) {
	ctx := context.Background()
	adapter := state.NewAdapter(ctx, memory.NewKVStore(0), "test:", 100, nil)

	if err := adapter.Set(ctx, "a", "0123456789"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	report := adapter.UsageReport(ctx)
	if report.UsedBytes == 0 {
		t.Fatalf("expected non-zero usage")
	}
	if report.EstimatedCapacity != 100 {
		t.Fatalf("expected capacity 100, got %d", report.EstimatedCapacity)
	}
	if report.Percentage <= 0 {
		t.Fatalf("expected positive percentage, got %f", report.Percentage)
	}
}
