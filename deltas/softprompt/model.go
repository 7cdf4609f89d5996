package softprompt

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// SoftPromptModel attaches a block of trainable prompt vectors to each
// selected embedding module. For a vocab×dim embedding the block is
// token_num×dim.
type SoftPromptModel struct {
	delta.ModelBase
	cfg *SoftPromptConfig
}

// New attaches soft prompt blocks to every module of bb matched by cfg and
// freezes the rest of the backbone.
func New(cfg *SoftPromptConfig, bb *backbone.Module) (*SoftPromptModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("soft_prompt: config and backbone required")
	}
	if cfg.SoftTokenNum <= 0 {
		return nil, fmt.Errorf("soft_prompt: token number %d out of range", cfg.SoftTokenNum)
	}
	if cfg.InitRange < 0 {
		return nil, fmt.Errorf("soft_prompt: init range %f out of range", cfg.InitRange)
	}
	log := logger.New("soft-prompt")
	m := &SoftPromptModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("soft_prompt: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		w := target.Weight()
		if w == nil {
			return nil, fmt.Errorf("soft_prompt: module %s has no embedding weight", target.Path())
		}
		_, dim := w.Data.Dims()
		d := m.InsertDeltaModule(target, "soft_prompt")
		embeds := d.AddParam("soft_embeds", cfg.SoftTokenNum, dim)
		winit.Uniform(embeds.Data, cfg.InitRange)
	}
	m.ApplyFreeze()
	log.Debugw("attached soft_prompt", map[string]any{
		"modules": len(targets),
		"tokens":  cfg.SoftTokenNum,
		"params":  m.NumParams(),
	})
	return m, nil
}
