package lowrank

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// LowRankAdapterModel inserts bottleneck blocks whose down and up
// projections are stored as rank-k factor pairs. The up factors start at
// zero so a fresh adapter is a no-op.
type LowRankAdapterModel struct {
	delta.ModelBase
	cfg *LowRankAdapterConfig
}

// New attaches low-rank adapters to every module of bb matched by cfg and
// freezes the rest of the backbone.
func New(cfg *LowRankAdapterConfig, bb *backbone.Module) (*LowRankAdapterModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("low_rank_adapter: config and backbone required")
	}
	if cfg.ReductionFactor <= 0 {
		return nil, fmt.Errorf("low_rank_adapter: reduction factor %d out of range", cfg.ReductionFactor)
	}
	if cfg.LowRankRank <= 0 {
		return nil, fmt.Errorf("low_rank_adapter: rank %d out of range", cfg.LowRankRank)
	}
	if cfg.LowRankWInit != "glorot-uniform" && cfg.LowRankWInit != "zero" {
		return nil, fmt.Errorf("low_rank_adapter: unknown init %q", cfg.LowRankWInit)
	}
	log := logger.New("low-rank-adapter")
	m := &LowRankAdapterModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("low_rank_adapter: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		dim := target.OutDim()
		if dim == 0 {
			return nil, fmt.Errorf("low_rank_adapter: module %s has no measurable output dim", target.Path())
		}
		bottleneck := dim / cfg.ReductionFactor
		if bottleneck < 1 {
			bottleneck = 1
		}
		d := m.InsertDeltaModule(target, "low_rank_adapter")
		m.initFactor(d.AddParam("down_u", dim, cfg.LowRankRank))
		m.initFactor(d.AddParam("down_v", cfg.LowRankRank, bottleneck))
		m.initFactor(d.AddParam("up_u", bottleneck, cfg.LowRankRank))
		d.AddParam("up_v", cfg.LowRankRank, dim)
	}
	m.ApplyFreeze()
	log.Debugw("attached low_rank_adapter", map[string]any{
		"modules": len(targets),
		"rank":    cfg.LowRankRank,
		"params":  m.NumParams(),
	})
	return m, nil
}

func (m *LowRankAdapterModel) initFactor(p *backbone.Param) {
	if m.cfg.LowRankWInit == "glorot-uniform" {
		winit.Glorot(p.Data)
	}
}
