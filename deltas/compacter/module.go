// Package compacter implements Compacter, adapters built from parameterized
// hypercomplex multiplication layers.
package compacter

import (
	"context"
	"fmt"
	"sync"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
)

// Load materializes the compacter module, at most once per process.
var Load delta.ModuleLoader = sync.OnceValues(newModule)

func newModule() (*delta.Module, error) {
	configType := &delta.ConfigType{
		Name: "CompacterConfig",
		New:  func() delta.Config { return NewConfig() },
	}
	modelType := &delta.ModelType{
		Name: "CompacterModel",
		FromConfig: func(cfg delta.Config, bb *backbone.Module) (delta.Model, error) {
			c, ok := cfg.(*CompacterConfig)
			if !ok {
				return nil, fmt.Errorf("compacter: cannot attach from %T", cfg)
			}
			return New(c, bb)
		},
		FromFinetuned: func(ctx context.Context, location string, bb *backbone.Module, opts delta.RestoreOptions) (delta.Model, error) {
			c, ok := opts.Config.(*CompacterConfig)
			if !ok {
				return nil, fmt.Errorf("compacter: cannot restore from %T", opts.Config)
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
	return delta.NewModule("deltakit/deltas/compacter", map[string]any{
		"CompacterConfig": configType,
		"CompacterModel":  modelType,
	}), nil
}
