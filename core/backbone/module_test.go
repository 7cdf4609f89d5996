package backbone

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func testBackbone() *Module {
	bb := New("bert")
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

func TestPathAndFind(t *testing.T) {
	bb := testBackbone()
	if got := bb.Path(); got != "" {
		t.Fatalf("root path = %q, want empty", got)
	}
	m, ok := bb.Find("encoder.1.attn.q")
	if !ok {
		t.Fatal("encoder.1.attn.q not found")
	}
	if got := m.Path(); got != "encoder.1.attn.q" {
		t.Fatalf("path = %q", got)
	}
	if _, ok := bb.Find("encoder.2"); ok {
		t.Fatal("expected missing module")
	}
	if _, ok := m.Param("weight"); !ok {
		t.Fatal("weight param missing")
	}
}

func TestMatchSuffix(t *testing.T) {
	bb := testBackbone()
	got := bb.Match([]string{"attn.q", "attn.v"}, nil)
	if len(got) != 4 {
		t.Fatalf("matched %d modules, want 4", len(got))
	}
	got = bb.Match([]string{"attn.q", "attn.v"}, []string{"encoder.1.attn.v"})
	if len(got) != 3 {
		t.Fatalf("matched %d modules with exclude, want 3", len(got))
	}
	// Empty patterns select every parameter-carrying module.
	got = bb.Match(nil, nil)
	if len(got) != 9 {
		t.Fatalf("matched %d modules, want 9", len(got))
	}
}

func TestMatchSkipsDeltaModules(t *testing.T) {
	bb := testBackbone()
	q, _ := bb.Find("encoder.0.attn.q")
	ins := q.NewChild("lora")
	ins.MarkDelta()
	ins.AddParam("lora_A", 4, 8)

	for _, m := range bb.Match(nil, nil) {
		if m.IsDelta() {
			t.Fatalf("delta module %s matched", m.Path())
		}
	}
	if got := bb.Match([]string{"lora"}, nil); len(got) != 0 {
		t.Fatalf("delta module matched by pattern: %d", len(got))
	}
}

func TestFreezeAndTrainable(t *testing.T) {
	bb := testBackbone()
	total := bb.NumParams()
	if total != 1136 {
		t.Fatalf("NumParams = %d, want 1136", total)
	}
	bb.Freeze()
	if got := bb.TrainableParams(); got != 0 {
		t.Fatalf("TrainableParams after freeze = %d", got)
	}

	q, _ := bb.Find("encoder.0.attn.q")
	ins := q.NewChild("lora")
	ins.MarkDelta()
	ins.AddParam("lora_A", 4, 8)
	if got := bb.TrainableParams(); got != 32 {
		t.Fatalf("TrainableParams with delta block = %d, want 32", got)
	}

	ff, _ := bb.Find("encoder.0.ff")
	ff.Unfreeze()
	if got := bb.TrainableParams(); got != 32+288 {
		t.Fatalf("TrainableParams after unfreeze = %d, want %d", got, 32+288)
	}
}

func TestChecksum(t *testing.T) {
	a := testBackbone()
	b := testBackbone()
	if a.Checksum() != b.Checksum() {
		t.Fatal("identical structures should share a checksum")
	}

	// Weight values do not affect the checksum.
	q, _ := a.Find("encoder.0.attn.q")
	p, _ := q.Param("weight")
	p.Data.Set(0, 0, 3.14)
	if a.Checksum() != b.Checksum() {
		t.Fatal("checksum should ignore weight values")
	}

	// Delta-inserted modules do not affect the checksum.
	ins := q.NewChild("lora")
	ins.MarkDelta()
	ins.AddParamMatrix("lora_A", mat.NewDense(4, 8, nil))
	if a.Checksum() != b.Checksum() {
		t.Fatal("checksum should ignore delta modules")
	}

	// Shape changes do.
	ff, _ := b.Find("encoder.0.ff")
	ff.AddParam("extra", 1, 1)
	if a.Checksum() == b.Checksum() {
		t.Fatal("checksum should reflect structure changes")
	}
}

func TestOutDim(t *testing.T) {
	bb := testBackbone()
	attn, _ := bb.Find("encoder.0.attn")
	if got := attn.OutDim(); got != 8 {
		t.Fatalf("attn OutDim = %d, want 8", got)
	}
	ff, _ := bb.Find("encoder.0.ff")
	if got := ff.OutDim(); got != 32 {
		t.Fatalf("ff OutDim = %d, want 32", got)
	}
	if got := bb.OutDim(); got != 16 {
		t.Fatalf("root OutDim = %d, want 16 from embed", got)
	}

	empty := New("empty")
	ins := empty.NewChild("lora")
	ins.MarkDelta()
	ins.AddParam("lora_A", 4, 8)
	if got := empty.OutDim(); got != 0 {
		t.Fatalf("OutDim counted a delta module: %d", got)
	}
}

func TestSymbols(t *testing.T) {
	if _, ok := LookupSymbol("missing-symbol"); ok {
		t.Fatal("unexpected symbol")
	}
	RegisterSymbol("shared-head", 42)
	v, ok := LookupSymbol("shared-head")
	if !ok || v.(int) != 42 {
		t.Fatalf("lookup = %v %v", v, ok)
	}
}
