package e2e

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deltakit/deltakit/app"
	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/config"
	"github.com/deltakit/deltakit/simulator"
)

// junitReport is a minimal representation of a JUnit XML report. The E2E
// suite writes such a report so CI systems can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

// writeJUnit writes the provided report to the given path.
func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

// Test_E2E_DeltaLifecycle drives the full stack from a configuration file:
// runtime assembly, lazy catalog resolution, delta attachment, artifact save
// and restore by name, with every event landing in an InfluxDB stand-in.
func Test_E2E_DeltaLifecycle(t *testing.T) {
	capture := newInfluxCapture()
	defer capture.Close()

	root := t.TempDir()
	artifacts := filepath.Join(root, "artifacts")
	cfgPath := filepath.Join(root, "deltakit.yaml")
	cfgYAML := fmt.Sprintf(`logging:
  env: dev
  level: debug
metrics:
  sinks:
    - type: influx
      conf:
        url: %s
        token: e2e-token
        org: deltakit
        bucket: events
hub:
  artifact_root: %s
`, capture.URL(), artifacts)
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	rt, err := app.New(cfg)
	if err != nil {
		t.Fatalf("runtime: %v", err)
	}

	start := time.Now()
	bb, err := simulator.Build(simulator.Config{})
	if err != nil {
		t.Fatalf("backbone: %v", err)
	}
	dcfg, unused, err := auto.ConfigFromMap(map[string]any{"delta_type": "lora", "lora_r": 4})
	if err != nil {
		t.Fatalf("config from map: %v", err)
	}
	if len(unused) != 0 {
		t.Fatalf("unexpected unused fields: %v", unused)
	}
	m, err := auto.ModelFromConfig(dcfg, bb, rt.Options()...)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if got := m.NumParams(); got != 256 {
		t.Fatalf("expected 256 delta params, got %d", got)
	}
	if err := m.SaveFinetuned(filepath.Join(artifacts, "e2e-lora")); err != nil {
		t.Fatalf("save: %v", err)
	}

	fresh, err := simulator.Build(simulator.Config{})
	if err != nil {
		t.Fatalf("fresh backbone: %v", err)
	}
	restored, err := auto.ModelFromFinetuned(context.Background(), "e2e-lora", fresh, rt.Options()...)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.NumParams() != m.NumParams() {
		t.Errorf("restored %d params, want %d", restored.NumParams(), m.NumParams())
	}

	if err := rt.Close(); err != nil {
		t.Errorf("runtime close: %v", err)
	}

	got := capture.measurements()
	for _, name := range []string{"delta_module_load", "delta_attach", "delta_save", "delta_restore"} {
		if got[name] == 0 {
			t.Errorf("no %s points captured, got %v", name, got)
		}
	}

	rep := junitReport{
		Name:  "deltakit-e2e",
		Tests: 1,
		Cases: []junitTestCase{{Name: t.Name(), Time: time.Since(start).Seconds()}},
	}
	if err := writeJUnit(filepath.Join(root, "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}
