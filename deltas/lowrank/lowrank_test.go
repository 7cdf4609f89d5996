package lowrank

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
	if got := len(m.DeltaModules()); got != 4 {
		t.Fatalf("delta modules = %d, want 4", got)
	}

	d, ok := bb.Find("encoder.0.attn.low_rank_adapter")
	if !ok {
		t.Fatal("encoder.0.attn.low_rank_adapter missing")
	}
	// dim 8 with reduction 32 clamps the bottleneck to 1.
	downU, ok := d.Param("down_u")
	if !ok {
		t.Fatal("down_u missing")
	}
	if r, c := downU.Data.Dims(); r != 8 || c != 1 {
		t.Fatalf("down_u dims = %dx%d, want 8x1", r, c)
	}
	upV, ok := d.Param("up_v")
	if !ok {
		t.Fatal("up_v missing")
	}
	if upV.Data.At(0, 0) != 0 {
		t.Fatal("up_v must start at zero")
	}

	// attn blocks carry 18 elements, ff blocks 66.
	if got := m.NumParams(); got != 168 {
		t.Fatalf("NumParams = %d, want 168", got)
	}
	if got := bb.TrainableParams(); got != 168 {
		t.Fatalf("trainable = %d, want only adapter params", got)
	}
}

func TestNewValidation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*LowRankAdapterConfig)
	}{
		{"reduction", func(c *LowRankAdapterConfig) { c.ReductionFactor = 0 }},
		{"rank", func(c *LowRankAdapterConfig) { c.LowRankRank = -1 }},
		{"init", func(c *LowRankAdapterConfig) { c.LowRankWInit = "normal" }},
		{"match", func(c *LowRankAdapterConfig) { c.ModifiedModules = []string{"decoder"} }},
	} {
		cfg := NewConfig()
		tc.mutate(cfg)
		if _, err := New(cfg, testBackbone()); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadModule(t *testing.T) {
	mod, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	v, ok := mod.Attr("LowRankAdapterConfig")
	if !ok {
		t.Fatal("LowRankAdapterConfig attribute missing")
	}
	cfg := v.(*delta.ConfigType).New().(*LowRankAdapterConfig)
	if cfg.DeltaType() != "low_rank_adapter" || cfg.ReductionFactor != 32 || cfg.LowRankRank != 1 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if _, ok := mod.Attr("LowRankAdapterModel"); !ok {
		t.Fatal("LowRankAdapterModel attribute missing")
	}
}
