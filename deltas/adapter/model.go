package adapter

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// AdapterModel inserts a down/up bottleneck block after each selected
// module. For a module with output dimension d and bottleneck b the block
// carries down_proj (b×d), down_bias (b×1), up_proj (d×b) and up_bias (d×1).
// The up projection starts at zero so a fresh adapter is a no-op.
type AdapterModel struct {
	delta.ModelBase
	cfg *AdapterConfig
}

// New attaches bottleneck adapters to every module of bb matched by cfg and
// freezes the rest of the backbone.
func New(cfg *AdapterConfig, bb *backbone.Module) (*AdapterModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("adapter: config and backbone required")
	}
	if cfg.BottleneckDim <= 0 {
		return nil, fmt.Errorf("adapter: bottleneck dim %d out of range", cfg.BottleneckDim)
	}
	log := logger.New("adapter")
	m := &AdapterModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("adapter: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		dim := target.OutDim()
		if dim == 0 {
			return nil, fmt.Errorf("adapter: module %s has no measurable output dim", target.Path())
		}
		d := m.InsertDeltaModule(target, "adapter")
		down := d.AddParam("down_proj", cfg.BottleneckDim, dim)
		winit.Glorot(down.Data)
		d.AddParam("down_bias", cfg.BottleneckDim, 1)
		d.AddParam("up_proj", dim, cfg.BottleneckDim)
		d.AddParam("up_bias", dim, 1)
	}
	m.ApplyFreeze()
	log.Debugw("attached adapter", map[string]any{
		"modules":    len(targets),
		"bottleneck": cfg.BottleneckDim,
		"params":     m.NumParams(),
	})
	return m, nil
}
