package bitfit

import "github.com/deltakit/deltakit/core/delta"

// BitFitConfig configures bias-only tuning. The method has no
// hyperparameters of its own; by default every parameter-carrying module
// receives a trainable bias delta.
type BitFitConfig struct {
	delta.BaseConfig
}

// NewConfig returns a BitFitConfig with the method defaults.
func NewConfig() *BitFitConfig {
	return &BitFitConfig{
		BaseConfig: delta.BaseConfig{Type: "bitfit"},
	}
}
