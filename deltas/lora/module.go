// Package lora implements LoRA, low-rank adaptation of frozen weight
// matrices.
package lora

import (
	"context"
	"fmt"
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

// Load materializes the lora module. The registries call it on first lookup
// of the "lora" key; construction happens at most once per process.
var Load delta.ModuleLoader = sync.OnceValues(newModule)

func newModule() (*delta.Module, error) {
	configType := &delta.ConfigType{
		Name: "LoraConfig",
		New:  func() delta.Config { return NewConfig() },
	}
	modelType := &delta.ModelType{
		Name: "LoraModel",
		FromConfig: func(cfg delta.Config, bb *backbone.Module) (delta.Model, error) {
			c, ok := cfg.(*LoraConfig)
			if !ok {
				return nil, fmt.Errorf("lora: cannot attach from %T", cfg)
			}
			return New(c, bb)
		},
		FromFinetuned: func(ctx context.Context, location string, bb *backbone.Module, opts delta.RestoreOptions) (delta.Model, error) {
			c, ok := opts.Config.(*LoraConfig)
			if !ok {
				return nil, fmt.Errorf("lora: cannot restore from %T", opts.Config)
			}
			m, err := New(c, bb)
			if err != nil {
				return nil, err
			}
			if err := delta.RestoreFinetuned(ctx, m, location, opts); err != nil {
				return nil, err
			}
			return m, nil
		},
	}
	return delta.NewModule("deltakit/deltas/lora", map[string]any{
		"LoraConfig": configType,
		"LoraModel":  modelType,
	}), nil
}
