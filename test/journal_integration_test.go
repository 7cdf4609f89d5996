package test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deltakit/deltakit/app"
	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/config"
	"github.com/deltakit/deltakit/infra/journal"
	"github.com/deltakit/deltakit/pkg/export"
	"github.com/deltakit/deltakit/simulator"
)

// A journal sink declared in the configuration records the full lifecycle,
// and the entries survive for later export.
func TestJournalSinkLifecycle(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "journal.db")
	root := filepath.Join(dir, "artifacts")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfgYAML := `logging:
  env: dev
metrics:
  sinks:
    - type: journal
      conf:
        driver: sqlite
        path: ` + dbPath + `
hub:
  artifact_root: ` + root + `
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write cfg: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load cfg: %v", err)
	}
	rt, err := app.New(cfg)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}

	bb, err := simulator.Build(simulator.Config{})
	if err != nil {
		t.Fatalf("backbone: %v", err)
	}
	deltaCfg, _, err := auto.ConfigFromMap(map[string]any{"delta_type": "adapter", "bottleneck_dim": 4})
	if err != nil {
		t.Fatalf("config from map: %v", err)
	}
	m, err := auto.ModelFromConfig(deltaCfg, bb, rt.Options()...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := m.SaveFinetuned(filepath.Join(root, "journaled-adapter")); err != nil {
		t.Fatalf("save: %v", err)
	}
	restoreBB, err := simulator.Build(simulator.Config{})
	if err != nil {
		t.Fatalf("backbone: %v", err)
	}
	if _, err := auto.ModelFromFinetuned(context.Background(), "journaled-adapter", restoreBB, rt.Options()...); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The database outlives the runtime.
	store, err := journal.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen journal: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	for _, kind := range []string{journal.KindAttach, journal.KindSave, journal.KindRestore} {
		entries, err := store.Query(ctx, journal.Query{Kind: kind, DeltaType: "adapter"})
		if err != nil {
			t.Fatalf("query %s: %v", kind, err)
		}
		if len(entries) != 1 {
			t.Fatalf("%s entries = %d, want 1", kind, len(entries))
		}
	}

	all, err := store.Query(ctx, journal.Query{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, all); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "attach") || !strings.Contains(out, "journaled-adapter") {
		t.Fatalf("export missing entries:\n%s", out)
	}
}
