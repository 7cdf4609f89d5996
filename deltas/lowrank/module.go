// Package lowrank implements low-rank adapters: bottleneck blocks stored as
// rank factorized projections.
package lowrank

import (
	"context"
	"fmt"
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

// Load materializes the low_rank_adapter module, at most once per process.
var Load delta.ModuleLoader = sync.OnceValues(newModule)

func newModule() (*delta.Module, error) {
	configType := &delta.ConfigType{
		Name: "LowRankAdapterConfig",
		New:  func() delta.Config { return NewConfig() },
	}
	modelType := &delta.ModelType{
		Name: "LowRankAdapterModel",
		FromConfig: func(cfg delta.Config, bb *backbone.Module) (delta.Model, error) {
			c, ok := cfg.(*LowRankAdapterConfig)
			if !ok {
				return nil, fmt.Errorf("low_rank_adapter: cannot attach from %T", cfg)
			}
			return New(c, bb)
		},
		FromFinetuned: func(ctx context.Context, location string, bb *backbone.Module, opts delta.RestoreOptions) (delta.Model, error) {
			c, ok := opts.Config.(*LowRankAdapterConfig)
			if !ok {
				return nil, fmt.Errorf("low_rank_adapter: cannot restore from %T", opts.Config)
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
	return delta.NewModule("deltakit/deltas/low_rank_adapter", map[string]any{
		"LowRankAdapterConfig": configType,
		"LowRankAdapterModel":  modelType,
	}), nil
}
