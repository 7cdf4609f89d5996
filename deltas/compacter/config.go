package compacter

import "github.com/deltakit/deltakit/core/delta"

// CompacterConfig configures hypercomplex adapters: bottleneck blocks whose
// projections are Kronecker compositions of a shared rule and small
// per-block factors.
type CompacterConfig struct {
	delta.BaseConfig
	ReductionFactor      int     `json:"reduction_factor"`
	NonLinearity         string  `json:"non_linearity"`
	HypercomplexDivision int     `json:"hypercomplex_division"`
	PhmRank              int     `json:"phm_rank"`
	PhmInitRange         float64 `json:"phm_init_range"`
}

// NewConfig returns a CompacterConfig with the method defaults.
func NewConfig() *CompacterConfig {
	return &CompacterConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "compacter",
			ModifiedModules: []string{"attn", "ff"},
		},
		ReductionFactor:      16,
		NonLinearity:         "gelu_new",
		HypercomplexDivision: 4,
		PhmRank:              1,
		PhmInitRange:         0.0001,
	}
}
