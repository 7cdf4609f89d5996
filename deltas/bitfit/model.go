package bitfit

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/infra/logger"
)

// BitFitModel adds a zero-initialized bias vector beside every selected
// module. For an out×in weight the bias is out×1.
type BitFitModel struct {
	delta.ModelBase
	cfg *BitFitConfig
}

// New attaches bias deltas to every module of bb matched by cfg and freezes
// the rest of the backbone.
func New(cfg *BitFitConfig, bb *backbone.Module) (*BitFitModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("bitfit: config and backbone required")
	}
	log := logger.New("bitfit")
	m := &BitFitModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("bitfit: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		w := target.Weight()
		if w == nil {
			return nil, fmt.Errorf("bitfit: module %s has no weight", target.Path())
		}
		out, _ := w.Data.Dims()
		d := m.InsertDeltaModule(target, "bitfit")
		d.AddParam("bias", out, 1)
	}
	m.ApplyFreeze()
	log.Debugw("attached bitfit", map[string]any{
		"modules": len(targets),
		"params":  m.NumParams(),
	})
	return m, nil
}
