package auto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deltakit/deltakit/catalog"
	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/metrics"
)

// ModelFromConfig attaches the delta method described by cfg to bb. The
// backbone is modified in place; the returned model tracks the inserted
// parameter blocks. No finetuned weights are restored on this path.
func ModelFromConfig(cfg delta.Config, bb *backbone.Module, opts ...Option) (delta.Model, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrUnrecognizedConfig)
	}
	if bb == nil {
		return nil, errors.New("backbone required")
	}
	o := newOptions(opts)

	mt, err := catalog.Models().GetForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedConfig, err)
	}
	start := time.Now()
	m, err := mt.FromConfig(cfg, bb)
	if err != nil {
		return nil, err
	}
	bindSink(m, o.sink)
	recordAttach(o.sink, m, bb, time.Since(start))
	return m, nil
}

// ModelFromFinetuned restores the finetuned delta stored at location onto
// bb. The config comes from WithConfig when supplied, otherwise it is built
// from the artifact itself; leftover fields from config resolution are
// forwarded to the method's restore path.
func ModelFromFinetuned(ctx context.Context, location string, bb *backbone.Module, opts ...Option) (delta.Model, error) {
	if bb == nil {
		return nil, errors.New("backbone required")
	}
	o := newOptions(opts)

	cfg := o.config
	extra := o.fields
	if cfg == nil {
		built, unused, err := ConfigFromFinetuned(ctx, location, opts...)
		if err != nil {
			return nil, err
		}
		cfg, extra = built, unused
	}
	mt, err := catalog.Models().GetForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedConfig, err)
	}

	start := time.Now()
	m, err := mt.FromFinetuned(ctx, location, bb, delta.RestoreOptions{
		Config:       cfg,
		Loader:       o.hubLoader(),
		SkipChecksum: o.skipChecksum,
		Extra:        extra,
		Logger:       o.log,
	})
	recordRestore(o.sink, cfg.DeltaType(), location, m, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	bindSink(m, o.sink)
	return m, nil
}

// bindSink routes the model's own persistence events to the sink when the
// implementation supports it.
func bindSink(m delta.Model, s metrics.Sink) {
	if s == nil {
		return
	}
	if b, ok := m.(interface{ BindSink(metrics.Sink) }); ok {
		b.BindSink(s)
	}
}

func recordAttach(s metrics.Sink, m delta.Model, bb *backbone.Module, d time.Duration) {
	if s == nil {
		return
	}
	rec, ok := s.(metrics.AttachRecorder)
	if !ok {
		return
	}
	_ = rec.RecordAttach(metrics.AttachEvent{
		DeltaType: m.Config().DeltaType(),
		ModelID:   m.ID(),
		Backbone:  bb.Name(),
		Params:    m.NumParams(),
		Duration:  d,
		Time:      time.Now(),
	})
}

func recordRestore(s metrics.Sink, deltaType, location string, m delta.Model, err error, d time.Duration) {
	if s == nil {
		return
	}
	rec, ok := s.(metrics.RestoreRecorder)
	if !ok {
		return
	}
	ev := metrics.RestoreEvent{
		DeltaType: deltaType,
		Location:  location,
		Duration:  d,
		Time:      time.Now(),
	}
	if m != nil {
		ev.Params = m.NumParams()
	}
	if err != nil {
		ev.Err = err.Error()
	}
	_ = rec.RecordRestore(ev)
}
