package compacter

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// CompacterModel inserts hypercomplex adapter blocks. Each block shares one
// phm_rule of n Kronecker slots and stores rank factorized down and up
// projections over the n-divided dimensions. The up factors start at zero.
type CompacterModel struct {
	delta.ModelBase
	cfg *CompacterConfig
}

// New attaches compacter blocks to every module of bb matched by cfg and
// freezes the rest of the backbone. Module output dimensions must be
// divisible by the hypercomplex division.
func New(cfg *CompacterConfig, bb *backbone.Module) (*CompacterModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("compacter: config and backbone required")
	}
	if cfg.ReductionFactor <= 0 {
		return nil, fmt.Errorf("compacter: reduction factor %d out of range", cfg.ReductionFactor)
	}
	n := cfg.HypercomplexDivision
	if n <= 0 {
		return nil, fmt.Errorf("compacter: hypercomplex division %d out of range", n)
	}
	if cfg.PhmRank <= 0 {
		return nil, fmt.Errorf("compacter: phm rank %d out of range", cfg.PhmRank)
	}
	log := logger.New("compacter")
	m := &CompacterModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("compacter: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		dim := target.OutDim()
		if dim == 0 {
			return nil, fmt.Errorf("compacter: module %s has no measurable output dim", target.Path())
		}
		if dim%n != 0 {
			return nil, fmt.Errorf("compacter: module %s dim %d not divisible by %d", target.Path(), dim, n)
		}
		bottleneck := dim / cfg.ReductionFactor
		if bottleneck < n {
			bottleneck = n
		}
		if rem := bottleneck % n; rem != 0 {
			bottleneck += n - rem
		}

		d := m.InsertDeltaModule(target, "compacter")
		rule := d.AddParam("phm_rule", n, n*n)
		winit.Uniform(rule.Data, cfg.PhmInitRange)
		winit.Uniform(d.AddParam("down_left", dim/n, cfg.PhmRank).Data, cfg.PhmInitRange)
		winit.Uniform(d.AddParam("down_right", cfg.PhmRank, bottleneck/n).Data, cfg.PhmInitRange)
		winit.Uniform(d.AddParam("up_left", bottleneck/n, cfg.PhmRank).Data, cfg.PhmInitRange)
		d.AddParam("up_right", cfg.PhmRank, dim/n)
	}
	m.ApplyFreeze()
	log.Debugw("attached compacter", map[string]any{
		"modules":  len(targets),
		"division": n,
		"params":   m.NumParams(),
	})
	return m, nil
}
