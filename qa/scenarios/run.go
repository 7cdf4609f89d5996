package scenarios

import (
	"context"
	"sort"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/hub"
	coremetrics "github.com/deltakit/deltakit/core/metrics"
	inframetrics "github.com/deltakit/deltakit/infra/metrics"
	"github.com/deltakit/deltakit/simulator"
)

// checkpointer is satisfied by every model embedding delta.ModelBase.
type checkpointer interface {
	Checkpoint() *hub.Checkpoint
}

// RunScenario replays sc step by step. Every step gets a fresh backbone so
// earlier attachments cannot leak into later counts.
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := inframetrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	for i, step := range sc.Steps {
		bb, err := simulator.BuildFromMap(sc.Backbone.Arch, sc.Backbone.Conf)
		if err != nil {
			t.Fatalf("step %d: backbone: %v", i, err)
		}
		cfg, unused, err := auto.ConfigFromMap(step.Fields)
		if err != nil {
			t.Fatalf("step %d: config: %v", i, err)
		}
		checkUnused(t, sc, i, step.Expected.Unused, unused)

		m, err := auto.ModelFromConfig(cfg, bb, auto.WithSink(sink))
		if err != nil {
			t.Fatalf("step %d: attach %s: %v", i, cfg.DeltaType(), err)
		}
		if got := len(m.DeltaModules()); got != step.Expected.DeltaModules {
			t.Errorf("scenario %s step %d: expected %d delta modules, got %d",
				sc.Name, i, step.Expected.DeltaModules, got)
		}
		if got := m.NumParams(); got != step.Expected.DeltaParams {
			t.Errorf("scenario %s step %d: expected %d delta params, got %d",
				sc.Name, i, step.Expected.DeltaParams, got)
		}
		if got := bb.TrainableParams(); got != step.Expected.Trainable {
			t.Errorf("scenario %s step %d: expected %d trainable params, got %d",
				sc.Name, i, step.Expected.Trainable, got)
		}
		if step.RoundTrip {
			roundTrip(t, sc, i, m)
		}
	}
}

// roundTrip saves m and restores it onto a fresh backbone, then compares the
// checkpoints block by block.
func roundTrip(t *testing.T, sc *Scenario, i int, m delta.Model) {
	dir := t.TempDir()
	if err := m.SaveFinetuned(dir); err != nil {
		t.Fatalf("step %d: save: %v", i, err)
	}
	fresh, err := simulator.BuildFromMap(sc.Backbone.Arch, sc.Backbone.Conf)
	if err != nil {
		t.Fatalf("step %d: fresh backbone: %v", i, err)
	}
	restored, err := auto.ModelFromFinetuned(context.Background(), dir, fresh)
	if err != nil {
		t.Fatalf("step %d: restore: %v", i, err)
	}
	want := m.(checkpointer).Checkpoint()
	got := restored.(checkpointer).Checkpoint()
	if len(got.Params) != len(want.Params) {
		t.Fatalf("step %d: restored %d blocks, want %d", i, len(got.Params), len(want.Params))
	}
	for j, blk := range want.Params {
		r := got.Params[j]
		if r.Name != blk.Name || r.Rows != blk.Rows || r.Cols != blk.Cols {
			t.Errorf("step %d: block %d is %s %dx%d, want %s %dx%d",
				i, j, r.Name, r.Rows, r.Cols, blk.Name, blk.Rows, blk.Cols)
			continue
		}
		for k := range blk.Data {
			if r.Data[k] != blk.Data[k] {
				t.Errorf("step %d: block %s differs at %d: %v != %v",
					i, blk.Name, k, r.Data[k], blk.Data[k])
				break
			}
		}
	}
}

func checkUnused(t *testing.T, sc *Scenario, i int, want []string, got map[string]any) {
	names := make([]string, 0, len(got))
	for k := range got {
		names = append(names, k)
	}
	sort.Strings(names)
	if len(names) != len(want) {
		t.Errorf("scenario %s step %d: unused fields %v, want %v", sc.Name, i, names, want)
		return
	}
	for j := range want {
		if names[j] != want[j] {
			t.Errorf("scenario %s step %d: unused fields %v, want %v", sc.Name, i, names, want)
			return
		}
	}
}
