package delta

import (
	"testing"
)

type stubConfig struct {
	BaseConfig
	Rank  int     `json:"rank"`
	Scale float64 `json:"scale"`
}

func stubConfigType() *ConfigType {
	return &ConfigType{
		Name: "stubConfig",
		New: func() Config {
			return &stubConfig{
				BaseConfig: BaseConfig{Type: "stub"},
				Rank:       4,
				Scale:      1.0,
			}
		},
	}
}

func TestConfigTypeFromMap_Defaults(t *testing.T) {
	cfg, unused, err := stubConfigType().FromMap(map[string]any{})
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	sc := cfg.(*stubConfig)
	if sc.Rank != 4 || sc.Scale != 1.0 {
		t.Fatalf("defaults not applied: %+v", sc)
	}
	if sc.DeltaType() != "stub" {
		t.Fatalf("delta type = %q", sc.DeltaType())
	}
	if len(unused) != 0 {
		t.Fatalf("unexpected unused fields: %v", unused)
	}
}

func TestConfigTypeFromMap_OverridesAndUnused(t *testing.T) {
	fields := map[string]any{
		"rank":             8,
		"modified_modules": []any{"attn.q"},
		"learning_rate":    0.01,
	}
	cfg, unused, err := stubConfigType().FromMap(fields)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	sc := cfg.(*stubConfig)
	if sc.Rank != 8 {
		t.Fatalf("rank = %d, want 8", sc.Rank)
	}
	if len(sc.ModifiedModules) != 1 || sc.ModifiedModules[0] != "attn.q" {
		t.Fatalf("modified modules = %v", sc.ModifiedModules)
	}
	if sc.Scale != 1.0 {
		t.Fatalf("scale default lost: %v", sc.Scale)
	}
	if len(unused) != 1 {
		t.Fatalf("unused = %v, want only learning_rate", unused)
	}
	if v, ok := unused["learning_rate"]; !ok || v.(float64) != 0.01 {
		t.Fatalf("learning_rate not forwarded: %v", unused)
	}
}

func TestConfigTypeFromMap_BadValue(t *testing.T) {
	if _, _, err := stubConfigType().FromMap(map[string]any{"rank": "not-a-number"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestConfigName(t *testing.T) {
	cfg, _, err := stubConfigType().FromMap(nil)
	if err != nil {
		t.Fatalf("from map: %v", err)
	}
	if got := ConfigName(cfg); got != "stubConfig" {
		t.Fatalf("ConfigName = %q", got)
	}
}
