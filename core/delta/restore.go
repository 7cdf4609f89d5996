package delta

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/logger"
)

// RestoreFinetuned loads the checkpoint at location and copies its parameter
// blocks into the delta modules of m. The checkpoint must match the model's
// delta type and, unless disabled, the structural checksum of the backbone.
func RestoreFinetuned(ctx context.Context, m Model, location string, opts RestoreOptions) error {
	if opts.Loader == nil {
		return errors.New("hub loader required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop{}
	}
	ck, err := opts.Loader.LoadCheckpoint(ctx, location)
	if err != nil {
		return fmt.Errorf("load checkpoint %s: %w", location, err)
	}
	cfg := m.Config()
	if ck.DeltaType != "" && ck.DeltaType != cfg.DeltaType() {
		return fmt.Errorf("checkpoint delta type %s does not match %s", ck.DeltaType, cfg.DeltaType())
	}
	if err := CompatibleVersion(cfg.Base().Version); err != nil {
		return err
	}
	if !opts.SkipChecksum && ck.BackboneChecksum != "" {
		if got := m.Backbone().Checksum(); got != ck.BackboneChecksum {
			return fmt.Errorf("%w: checkpoint %s, backbone %s", ErrChecksumMismatch, shortSum(ck.BackboneChecksum), shortSum(got))
		}
	}

	targets := map[string]*backbone.Param{}
	for _, d := range m.DeltaModules() {
		d.Walk(func(n *backbone.Module) bool {
			for _, p := range n.Params() {
				targets[n.Path()+"/"+p.Name] = p
			}
			return true
		})
	}
	restored := 0
	for _, blk := range ck.Params {
		p, ok := targets[blk.Name]
		if !ok {
			return fmt.Errorf("checkpoint block %s has no delta parameter", blk.Name)
		}
		r, c := p.Data.Dims()
		if r != blk.Rows || c != blk.Cols {
			return fmt.Errorf("checkpoint block %s is %dx%d, delta parameter is %dx%d", blk.Name, blk.Rows, blk.Cols, r, c)
		}
		if len(blk.Data) != blk.Rows*blk.Cols {
			return fmt.Errorf("checkpoint block %s has %d values, want %d", blk.Name, len(blk.Data), blk.Rows*blk.Cols)
		}
		p.Data = mat.NewDense(blk.Rows, blk.Cols, append([]float64(nil), blk.Data...))
		delete(targets, blk.Name)
		restored++
	}
	for name := range targets {
		log.Warnf("delta parameter %s missing from checkpoint", name)
	}
	log.Debugw("restored delta checkpoint", map[string]any{"location": location, "blocks": restored})
	return nil
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
