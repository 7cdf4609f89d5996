package lora

import (
	"errors"
	"fmt"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/deltas/internal/winit"
	"github.com/deltakit/deltakit/infra/logger"
)

// LoraModel holds the low-rank factor pairs attached beside the weight
// matrices the config selected. For an out×in weight it adds lora_A (r×in)
// and lora_B (out×r); lora_B starts at zero so a fresh delta is a no-op.
type LoraModel struct {
	delta.ModelBase
	cfg *LoraConfig
}

// New attaches LoRA factors to every module of bb matched by cfg and freezes
// the rest of the backbone.
func New(cfg *LoraConfig, bb *backbone.Module) (*LoraModel, error) {
	if cfg == nil || bb == nil {
		return nil, errors.New("lora: config and backbone required")
	}
	if cfg.LoraR <= 0 {
		return nil, fmt.Errorf("lora: rank %d out of range", cfg.LoraR)
	}
	log := logger.New("lora")
	m := &LoraModel{ModelBase: delta.NewModelBase(cfg, bb, log), cfg: cfg}

	targets := bb.Match(cfg.ModifiedModules, cfg.ExcludeModules)
	if len(targets) == 0 {
		return nil, fmt.Errorf("lora: no backbone module matches %v", cfg.ModifiedModules)
	}
	for _, target := range targets {
		w := target.Weight()
		if w == nil {
			return nil, fmt.Errorf("lora: module %s has no weight to adapt", target.Path())
		}
		out, in := w.Data.Dims()
		d := m.InsertDeltaModule(target, "lora")
		a := d.AddParam("lora_A", cfg.LoraR, in)
		winit.Kaiming(a.Data)
		d.AddParam("lora_B", out, cfg.LoraR)
	}
	m.ApplyFreeze()
	log.Debugw("attached lora", map[string]any{
		"modules": len(targets),
		"rank":    cfg.LoraR,
		"params":  m.NumParams(),
	})
	return m, nil
}
