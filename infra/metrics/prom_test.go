package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/deltakit/deltakit/core/metrics"
)

func TestPromSink_RecordEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}

	if err := sink.RecordModuleLoad(coremetrics.ModuleLoadEvent{Key: "lora"}); err != nil {
		t.Fatalf("record load: %v", err)
	}
	if err := sink.RecordModuleLoad(coremetrics.ModuleLoadEvent{Key: "bitfit", Err: "missing attr"}); err != nil {
		t.Fatalf("record load: %v", err)
	}

	expected := `
# HELP delta_module_loads_total Total number of lazy delta module loads
# TYPE delta_module_loads_total counter
delta_module_loads_total{key="bitfit",status="error"} 1
delta_module_loads_total{key="lora",status="ok"} 1
`
	if err := testutil.CollectAndCompare(sink.loads, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if err := sink.RecordAttach(coremetrics.AttachEvent{DeltaType: "lora", Backbone: "bert", Params: 2048}); err != nil {
		t.Fatalf("record attach: %v", err)
	}
	if got := testutil.ToFloat64(sink.params.WithLabelValues("lora")); got != 2048 {
		t.Errorf("expected 2048 delta parameters, got %v", got)
	}

	if err := sink.RecordRestore(coremetrics.RestoreEvent{DeltaType: "lora", Duration: 120 * time.Millisecond}); err != nil {
		t.Fatalf("record restore: %v", err)
	}
	if c := testutil.CollectAndCount(sink.restores); c == 0 {
		t.Errorf("restore not recorded")
	}

	if err := sink.RecordSave(coremetrics.SaveEvent{DeltaType: "lora"}); err != nil {
		t.Fatalf("record save: %v", err)
	}
	if got := testutil.ToFloat64(sink.saves.WithLabelValues("lora")); got != 1 {
		t.Errorf("expected 1 save event, got %v", got)
	}
}

func TestPromSink_AlreadyRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// A second sink on the same registry reuses the existing collectors.
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second create: %v", err)
	}
}
