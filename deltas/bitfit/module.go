// Package bitfit implements BitFit, bias-only finetuning through added bias
// deltas.
package bitfit

import (
	"context"
	"fmt"
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

// Load materializes the bitfit module, at most once per process.
var Load delta.ModuleLoader = sync.OnceValues(newModule)

func newModule() (*delta.Module, error) {
	configType := &delta.ConfigType{
		Name: "BitFitConfig",
		New:  func() delta.Config { return NewConfig() },
	}
	modelType := &delta.ModelType{
		Name: "BitFitModel",
		FromConfig: func(cfg delta.Config, bb *backbone.Module) (delta.Model, error) {
			c, ok := cfg.(*BitFitConfig)
			if !ok {
				return nil, fmt.Errorf("bitfit: cannot attach from %T", cfg)
			}
			return New(c, bb)
		},
		FromFinetuned: func(ctx context.Context, location string, bb *backbone.Module, opts delta.RestoreOptions) (delta.Model, error) {
			c, ok := opts.Config.(*BitFitConfig)
			if !ok {
				return nil, fmt.Errorf("bitfit: cannot restore from %T", opts.Config)
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
	return delta.NewModule("deltakit/deltas/bitfit", map[string]any{
		"BitFitConfig": configType,
		"BitFitModel":  modelType,
	}), nil
}
