package softprompt

import "github.com/deltakit/deltakit/core/delta"

// SoftPromptConfig configures soft prompt tuning: trainable prompt vectors
// prepended in the embedding space.
type SoftPromptConfig struct {
	delta.BaseConfig
	SoftTokenNum int     `json:"soft_token_num"`
	InitRange    float64 `json:"init_range"`
}

// NewConfig returns a SoftPromptConfig with the method defaults.
func NewConfig() *SoftPromptConfig {
	return &SoftPromptConfig{
		BaseConfig: delta.BaseConfig{
			Type:            "soft_prompt",
			ModifiedModules: []string{"embed"},
		},
		SoftTokenNum: 100,
		InitRange:    0.5,
	}
}
