package prefix

import "github.com/deltakit/deltakit/core/delta"

// PrefixConfig configures prefix tuning: trainable key/value token blocks
// prepended to the selected attention modules.
type PrefixConfig struct {
	delta.BaseConfig
	PrefixTokenNum int `json:"prefix_token_num"`
	MidDim         int `json:"mid_dim"`
}

// NewConfig returns a PrefixConfig with the method defaults.
func NewConfig() *PrefixConfig {
	return &PrefixConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "prefix",
			ModifiedModules: []string{"attn"},
		},
		PrefixTokenNum: 6,
		MidDim:         512,
	}
}
