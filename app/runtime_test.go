package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/deltakit/deltakit/api/hubserver"
	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/config"
	coremetrics "github.com/deltakit/deltakit/core/metrics"
	infrahub "github.com/deltakit/deltakit/infra/hub"
	"github.com/deltakit/deltakit/simulator"
)

func TestNewRuntimeDefaults(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	rt, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.Sink.(coremetrics.NopSink); !ok {
		t.Fatalf("sink = %T, want NopSink", rt.Sink)
	}
	if rt.Loader == nil || rt.Log == nil {
		t.Fatal("runtime incomplete")
	}
	if opts := rt.Options(); len(opts) != 3 {
		t.Fatalf("options = %d, want 3", len(opts))
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewRuntimeUnknownSink(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Metrics.Sinks = []coremetrics.SinkConfig{{Type: "missing"}}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown sink type")
	}
}

// Artifacts saved under the configured root are addressable by name.
func TestRuntimeLoaderResolvesRoot(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Hub.ArtifactRoot = root

	rt, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := simulator.Build(simulator.Config{Layers: 1})
	if err != nil {
		t.Fatal(err)
	}
	cfgMap := map[string]any{"delta_type": "lora", "lora_r": 2}
	deltaCfg, _, err := auto.ConfigFromMap(cfgMap)
	if err != nil {
		t.Fatal(err)
	}
	m, err := auto.ModelFromConfig(deltaCfg, bb, rt.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SaveFinetuned(filepath.Join(root, "my-lora")); err != nil {
		t.Fatal(err)
	}

	fields, err := rt.Loader.LoadConfigMap(context.Background(), "my-lora")
	if err != nil {
		t.Fatal(err)
	}
	if fields["delta_type"] != "lora" {
		t.Fatalf("delta_type = %v", fields["delta_type"])
	}

	restoreBB, err := simulator.Build(simulator.Config{Layers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auto.ModelFromFinetuned(context.Background(), "my-lora", restoreBB, rt.Options()...); err != nil {
		t.Fatalf("restore by name: %v", err)
	}
}

// A base URL switches artifact resolution to the remote hub.
func TestRuntimeLoaderRemoteHub(t *testing.T) {
	root := t.TempDir()

	// Save an artifact locally, then serve the directory as a hub.
	localCfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	localCfg.Hub.ArtifactRoot = root
	local, err := New(localCfg)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := simulator.Build(simulator.Config{Layers: 1})
	if err != nil {
		t.Fatal(err)
	}
	deltaCfg, _, err := auto.ConfigFromMap(map[string]any{"delta_type": "bitfit"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := auto.ModelFromConfig(deltaCfg, bb, local.Options()...)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SaveFinetuned(filepath.Join(root, "remote-bitfit")); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(hubserver.NewHandler(root, "tok"))
	defer srv.Close()

	cfg, err := config.Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg.Hub.BaseURL = srv.URL
	cfg.Hub.Token = "tok"
	rt, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := rt.Loader.(*infrahub.HTTPLoader); !ok {
		t.Fatalf("loader = %T, want HTTPLoader", rt.Loader)
	}
	if rt.Monitor == nil {
		t.Fatal("monitor missing")
	}

	restoreBB, err := simulator.Build(simulator.Config{Layers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auto.ModelFromFinetuned(context.Background(), "remote-bitfit", restoreBB, rt.Options()...); err != nil {
		t.Fatalf("restore from hub: %v", err)
	}
}
