// Package adapter implements bottleneck adapters in the Houlsby style.
package adapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

// Load materializes the adapter module, at most once per process.
var Load delta.ModuleLoader = sync.OnceValues(newModule)

func newModule() (*delta.Module, error) {
	configType := &delta.ConfigType{
		Name: "AdapterConfig",
		New:  func() delta.Config { return NewConfig() },
	}
	modelType := &delta.ModelType{
		Name: "AdapterModel",
		FromConfig: func(cfg delta.Config, bb *backbone.Module) (delta.Model, error) {
			c, ok := cfg.(*AdapterConfig)
			if !ok {
				return nil, fmt.Errorf("adapter: cannot attach from %T", cfg)
			}
			return New(c, bb)
		},
		FromFinetuned: func(ctx context.Context, location string, bb *backbone.Module, opts delta.RestoreOptions) (delta.Model, error) {
			c, ok := opts.Config.(*AdapterConfig)
			if !ok {
				return nil, fmt.Errorf("adapter: cannot restore from %T", opts.Config)
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
	return delta.NewModule("deltakit/deltas/adapter", map[string]any{
		"AdapterConfig": configType,
		"AdapterModel":  modelType,
	}), nil
}
