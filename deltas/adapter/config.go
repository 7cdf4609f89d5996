package adapter

import "github.com/deltakit/deltakit/core/delta"

// AdapterConfig configures bottleneck adapters inserted after the attention
// and feed-forward blocks.
type AdapterConfig struct {
	delta.BaseConfig
	BottleneckDim int    `json:"bottleneck_dim"`
	NonLinearity  string `json:"non_linearity"`
}

// NewConfig returns an AdapterConfig with the method defaults.
func NewConfig() *AdapterConfig {
	return &AdapterConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "adapter",
			ModifiedModules: []string{"attn", "ff"},
		},
		BottleneckDim: 24,
		NonLinearity:  "gelu_new",
	}
}
