package lowrank

import "github.com/deltakit/deltakit/core/delta"

// LowRankAdapterConfig configures adapters whose projections are themselves
// low-rank factorized.
type LowRankAdapterConfig struct {
	delta.BaseConfig
	ReductionFactor int    `json:"reduction_factor"`
	NonLinearity    string `json:"non_linearity"`
	LowRankWInit    string `json:"low_rank_w_init"`
	LowRankRank     int    `json:"low_rank_rank"`
}

// NewConfig returns a LowRankAdapterConfig with the method defaults.
func NewConfig() *LowRankAdapterConfig {
	return &LowRankAdapterConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "low_rank_adapter",
			ModifiedModules: []string{"attn", "ff"},
		},
		ReductionFactor: 32,
		NonLinearity:    "gelu_new",
		LowRankWInit:    "glorot-uniform",
		LowRankRank:     1,
	}
}
