// Package simulator builds synthetic backbone trees for demos, scenario
// tests and the deltactl attach command. Architectures register themselves
// in a factory registry, so scenario files select them by name.
package simulator

import (
	"strconv"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/factory"
)

// Config describes a synthetic backbone. Zero values fall back to a small
// two-layer model suitable for tests.
type Config struct {
	// Arch selects the architecture family: "transformer" or "mlp".
	Arch string `json:"arch"`
	// Name is the backbone class stamped on the root module. Defaults to
	// the architecture name.
	Name string `json:"name"`
	// Layers is the number of encoder layers.
	Layers int `json:"layers"`
	// Hidden is the model width.
	Hidden int `json:"hidden"`
	// FF is the feed-forward width (transformer only).
	FF int `json:"ff"`
	// Vocab is the embedding row count (transformer only).
	Vocab int `json:"vocab"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Arch == "" {
		c.Arch = "transformer"
	}
	if c.Name == "" {
		c.Name = c.Arch
	}
	if c.Layers <= 0 {
		c.Layers = 2
	}
	if c.Hidden <= 0 {
		c.Hidden = 8
	}
	if c.FF <= 0 {
		c.FF = 4 * c.Hidden
	}
	if c.Vocab <= 0 {
		c.Vocab = 32
	}
}

// Builders holds the registered synthetic architectures.
var Builders = factory.NewRegistry[*backbone.Module]()

func init() {
	_ = Builders.Register("transformer", builderFor("transformer", buildTransformer))
	_ = Builders.Register("mlp", builderFor("mlp", buildMLP))
}

// Build constructs the backbone described by cfg.
func Build(cfg Config) (*backbone.Module, error) {
	cfg.SetDefaults()
	return Builders.Create(factory.PluginConfig{Type: cfg.Arch, Conf: map[string]any{
		"name":   cfg.Name,
		"layers": cfg.Layers,
		"hidden": cfg.Hidden,
		"ff":     cfg.FF,
		"vocab":  cfg.Vocab,
	}})
}

// BuildFromMap constructs a backbone from an architecture name and a raw
// settings map, the form scenario files use. An empty arch selects the
// transformer.
func BuildFromMap(arch string, conf map[string]any) (*backbone.Module, error) {
	if arch == "" {
		arch = "transformer"
	}
	return Builders.Create(factory.PluginConfig{Type: arch, Conf: conf})
}

func builderFor(arch string, build func(Config) *backbone.Module) factory.Factory[*backbone.Module] {
	return func(conf map[string]any) (*backbone.Module, error) {
		var c Config
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		c.Arch = arch
		c.SetDefaults()
		return build(c), nil
	}
}

// buildTransformer lays out an embedding plus encoder layers with q/k/v/o
// attention projections and an up/down feed-forward pair. Parameters are
// zero-valued; delta methods only read their shapes.
func buildTransformer(c Config) *backbone.Module {
	bb := backbone.New(c.Name)
	bb.NewChild("embed").AddParam("weight", c.Vocab, c.Hidden)
	enc := bb.NewChild("encoder")
	for i := 0; i < c.Layers; i++ {
		layer := enc.NewChild(strconv.Itoa(i))
		attn := layer.NewChild("attn")
		for _, n := range []string{"q", "k", "v", "o"} {
			proj := attn.NewChild(n)
			proj.AddParam("weight", c.Hidden, c.Hidden)
			proj.AddParam("bias", c.Hidden, 1)
		}
		ff := layer.NewChild("ff")
		up := ff.NewChild("up")
		up.AddParam("weight", c.FF, c.Hidden)
		up.AddParam("bias", c.FF, 1)
		down := ff.NewChild("down")
		down.AddParam("weight", c.Hidden, c.FF)
		down.AddParam("bias", c.Hidden, 1)
	}
	return bb
}

// buildMLP lays out a flat stack of square linear layers.
func buildMLP(c Config) *backbone.Module {
	bb := backbone.New(c.Name)
	layers := bb.NewChild("layers")
	for i := 0; i < c.Layers; i++ {
		l := layers.NewChild(strconv.Itoa(i))
		l.AddParam("weight", c.Hidden, c.Hidden)
		l.AddParam("bias", c.Hidden, 1)
	}
	return bb
}
