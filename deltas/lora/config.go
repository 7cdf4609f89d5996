package lora

import "github.com/deltakit/deltakit/core/delta"

// LoraConfig configures low-rank adaptation: rank-r factor pairs injected
// beside selected weight matrices.
type LoraConfig struct {
	delta.BaseConfig
	LoraR       int     `json:"lora_r"`
	LoraAlpha   int     `json:"lora_alpha"`
	LoraDropout float64 `json:"lora_dropout"`
}

// NewConfig returns a LoraConfig with the method defaults: rank 8, alpha 16,
// applied to the attention query and value projections.
func NewConfig() *LoraConfig {
	return &LoraConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "lora",
			ModifiedModules: []string{"attn.q", "attn.v"},
		},
		LoraR:     8,
		LoraAlpha: 16,
	}
}

// Scaling returns the lora_alpha/lora_r factor applied to the low-rank
// update.
func (c *LoraConfig) Scaling() float64 {
	if c.LoraR == 0 {
		return 0
	}
	return float64(c.LoraAlpha) / float64(c.LoraR)
}
