package prefix

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// PrefixModel prepends trainable past_key/past_value token blocks to each
// selected attention module.
type PrefixModel struct {
	delta.ModelBase
	cfg *PrefixConfig
}

// New attaches prefix token blocks to every module of bb matched by cfg and
// freezes the rest of the backbone.
func New(cfg *PrefixConfig, bb *backbone.Module) (*PrefixModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("prefix: config and backbone required")
	}
	if cfg.PrefixTokenNum <= 0 {
		return nil, fmt.Errorf("prefix: token number %d out of range", cfg.PrefixTokenNum)
	}
	log := logger.New("prefix")
	m := &PrefixModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("prefix: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		dim := target.OutDim()
		if dim == 0 {
			return nil, fmt.Errorf("prefix: module %s has no measurable output dim", target.Path())
		}
		d := m.InsertDeltaModule(target, "prefix")
		winit.Kaiming(d.AddParam("past_key", cfg.PrefixTokenNum, dim).Data)
		winit.Kaiming(d.AddParam("past_value", cfg.PrefixTokenNum, dim).Data)
	}
	m.ApplyFreeze()
	log.Debugw("attached prefix", map[string]any{
		"modules": len(targets),
		"tokens":  cfg.PrefixTokenNum,
		"params":  m.NumParams(),
	})
	return m, nil
}
