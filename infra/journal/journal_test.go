package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleEntries(base time.Time) []Entry {
	return []Entry{
		{Time: base, Kind: KindModuleLoad, Key: "lora", Module: "deltas/lora"},
		{Time: base.Add(time.Second), Kind: KindAttach, DeltaType: "lora", Backbone: "transformer", Params: 512},
		{Time: base.Add(2 * time.Second), Kind: KindSave, DeltaType: "lora", Location: "/tmp/a", Params: 512},
		{Time: base.Add(3 * time.Second), Kind: KindAttach, DeltaType: "bitfit", Backbone: "mlp", Params: 12},
	}
}

func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range sampleEntries(base) {
		if err := store.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(all))
	}

	attaches, err := store.Query(ctx, Query{Kind: KindAttach})
	if err != nil {
		t.Fatalf("query attach: %v", err)
	}
	if len(attaches) != 2 {
		t.Fatalf("expected 2 attach entries, got %d", len(attaches))
	}

	lora, err := store.Query(ctx, Query{DeltaType: "lora"})
	if err != nil {
		t.Fatalf("query lora: %v", err)
	}
	if len(lora) != 2 {
		t.Fatalf("expected 2 lora entries, got %d", len(lora))
	}

	windowed, err := store.Query(ctx, Query{Start: base.Add(time.Second), End: base.Add(2 * time.Second)})
	if err != nil {
		t.Fatalf("query window: %v", err)
	}
	if len(windowed) != 2 {
		t.Fatalf("expected 2 entries in window, got %d", len(windowed))
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runStoreContract(t, store)
}

func TestRotatingJSONLStore(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "events.jsonl"), 1, 2, 1)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runStoreContract(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	runStoreContract(t, store)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	e := Entry{Time: time.Now().UTC(), Kind: KindRestore, DeltaType: "prefix", Location: "x"}
	if err := store.Append(ctx, e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = store.Close() }()
	out, err := store.Query(ctx, Query{Kind: KindRestore})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) != 1 || out[0].DeltaType != "prefix" {
		t.Fatalf("unexpected entries after reopen: %+v", out)
	}
}
