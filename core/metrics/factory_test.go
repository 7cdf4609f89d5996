package metrics_test

import (
	"testing"

	metrics "github.com/deltakit/deltakit/core/metrics"
	_ "github.com/deltakit/deltakit/infra/metrics"
)

/*
TestSinkFactory_Builtins verifies registration via infra/metrics/builtin.go.

	Cases:
	- instantiate builtin nop sink
	- unknown type returns error
*/
func TestSinkFactory_Builtins(t *testing.T) {
	s, err := metrics.NewSink([]metrics.SinkConfig{{Type: "nop"}})
	if err != nil {
		t.Fatalf("create nop: %v", err)
	}
	if s == nil {
		t.Fatal("expected sink instance")
	}
	if _, err := metrics.NewSink([]metrics.SinkConfig{{Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

/*
TestNewSink_Multi validates NewSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - two configs -> MultiSink with two sub-sinks
*/
func TestNewSink_Multi(t *testing.T) {
	// No config defaults to NopSink
	s, err := metrics.NewSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(metrics.NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	// Multiple configs returns MultiSink
	cfgs := []metrics.SinkConfig{{Type: "nop"}, {Type: "nop"}}
	s, err = metrics.NewSink(cfgs)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*metrics.MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}
}
