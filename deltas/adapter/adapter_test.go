package adapter

import (
	"testing"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

func testBackbone() *backbone.Module {
	bb := backbone.New("bert")
	embed := bb.NewChild("embed")
	embed.AddParam("weight", 16, 8)
	enc := bb.NewChild("encoder")
	for _, idx := range []string{"0", "1"} {
		layer := enc.NewChild(idx)
		attn := layer.NewChild("attn")
		for _, n := range []string{"q", "k", "v"} {
			proj := attn.NewChild(n)
			proj.AddParam("weight", 8, 8)
			proj.AddParam("bias", 8, 1)
		}
		ff := layer.NewChild("ff")
		ff.AddParam("weight", 32, 8)
		ff.AddParam("bias", 32, 1)
	}
	return bb
}

func TestNewDefaults(t *testing.T) {
	bb := testBackbone()
	m, err := New(NewConfig(), bb)
	if err != nil {
		t.Fatal(err)
	}
	// attn and ff in both layers.
	if got := len(m.DeltaModules()); got != 4 {
		t.Fatalf("delta modules = %d, want 4", got)
	}

	d, ok := bb.Find("encoder.0.attn.adapter")
	if !ok {
		t.Fatal("encoder.0.attn.adapter missing")
	}
	down, ok := d.Param("down_proj")
	if !ok {
		t.Fatal("down_proj missing")
	}
	if r, c := down.Data.Dims(); r != 24 || c != 8 {
		t.Fatalf("down_proj dims = %dx%d, want 24x8", r, c)
	}
	up, ok := d.Param("up_proj")
	if !ok {
		t.Fatal("up_proj missing")
	}
	if r, c := up.Data.Dims(); r != 8 || c != 24 {
		t.Fatalf("up_proj dims = %dx%d, want 8x24", r, c)
	}
	if up.Data.At(0, 0) != 0 {
		t.Fatal("up_proj must start at zero")
	}

	// attn blocks carry 416 elements, ff blocks 1592.
	if got := m.NumParams(); got != 4016 {
		t.Fatalf("NumParams = %d, want 4016", got)
	}
	if got := bb.TrainableParams(); got != 4016 {
		t.Fatalf("trainable = %d, want only adapter params", got)
	}
}

func TestNewBadBottleneck(t *testing.T) {
	cfg := NewConfig()
	cfg.BottleneckDim = 0
	if _, err := New(cfg, testBackbone()); err == nil {
		t.Fatal("expected error for bottleneck 0")
	}
}

func TestNewNoMatch(t *testing.T) {
	cfg := NewConfig()
	cfg.ModifiedModules = []string{"decoder"}
	if _, err := New(cfg, testBackbone()); err == nil {
		t.Fatal("expected error for unmatched modules")
	}
}

func TestLoadModule(t *testing.T) {
	mod, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	v, ok := mod.Attr("AdapterConfig")
	if !ok {
		t.Fatal("AdapterConfig attribute missing")
	}
	cfg := v.(*delta.ConfigType).New().(*AdapterConfig)
	if cfg.DeltaType() != "adapter" || cfg.BottleneckDim != 24 || cfg.NonLinearity != "gelu_new" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if _, ok := mod.Attr("AdapterModel"); !ok {
		t.Fatal("AdapterModel attribute missing")
	}
}
