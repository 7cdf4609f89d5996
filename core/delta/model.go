package delta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/deltakit/deltakit/core/backbone"
	"github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/core/logger"
	"github.com/deltakit/deltakit/core/metrics"
)

// ModelBase implements the bookkeeping shared by all delta models: identity,
// config stamping, delta module tracking and checkpoint persistence.
// Concrete models embed it and add their attachment logic.
type ModelBase struct {
	id   string
	cfg  Config
	bb   *backbone.Module
	mods []*backbone.Module
	log  logger.Logger
	sink metrics.Sink
}

// NewModelBase allocates the shared state and stamps the config with the
// backbone class, structural checksum and library version. Provenance fields
// already carried by the config, for example after loading an artifact, are
// preserved.
func NewModelBase(cfg Config, bb *backbone.Module, log logger.Logger) ModelBase {
	if log == nil {
		log = logger.Nop{}
	}
	base := cfg.Base()
	if base.BackboneClass == "" {
		base.BackboneClass = bb.Name()
	}
	if base.BackboneChecksum == "" {
		base.BackboneChecksum = bb.Checksum()
	}
	if base.Version == "" {
		base.Version = Version
	}
	return ModelBase{
		id:   uuid.NewString(),
		cfg:  cfg,
		bb:   bb,
		log:  log,
		sink: metrics.NopSink{},
	}
}

// ID returns the identifier assigned when the delta was attached.
func (m *ModelBase) ID() string { return m.id }

// Config returns the delta config the model was built from.
func (m *ModelBase) Config() Config { return m.cfg }

// Backbone returns the host module tree.
func (m *ModelBase) Backbone() *backbone.Module { return m.bb }

// DeltaModules lists the inserted parameter blocks in insertion order.
func (m *ModelBase) DeltaModules() []*backbone.Module { return m.mods }

// InsertDeltaModule creates a delta-marked child under parent and tracks it
// for persistence.
func (m *ModelBase) InsertDeltaModule(parent *backbone.Module, name string) *backbone.Module {
	d := parent.NewChild(name)
	d.MarkDelta()
	m.mods = append(m.mods, d)
	return d
}

// NumParams returns the number of parameter elements the delta introduced.
func (m *ModelBase) NumParams() int {
	total := 0
	for _, d := range m.mods {
		total += d.NumParams()
	}
	return total
}

// Log returns the model's logger.
func (m *ModelBase) Log() logger.Logger { return m.log }

// BindSink routes persistence events to the given metrics sink.
func (m *ModelBase) BindSink(s metrics.Sink) {
	if s != nil {
		m.sink = s
	}
}

// ApplyFreeze freezes the backbone parameters and re-enables training for
// the modules listed in the config's unfrozen set. Delta-inserted modules
// always stay trainable.
func (m *ModelBase) ApplyFreeze() {
	m.bb.Freeze()
	base := m.cfg.Base()
	if len(base.UnfrozenModules) == 0 {
		return
	}
	for _, mod := range m.bb.Match(base.UnfrozenModules, nil) {
		mod.Unfreeze()
	}
}

// Checkpoint captures the delta parameter blocks for persistence. Matrices
// are flattened row-major.
func (m *ModelBase) Checkpoint() *hub.Checkpoint {
	ck := &hub.Checkpoint{
		DeltaType:        m.cfg.DeltaType(),
		BackboneChecksum: m.cfg.Base().BackboneChecksum,
	}
	for _, d := range m.mods {
		d.Walk(func(n *backbone.Module) bool {
			for _, p := range n.Params() {
				r, c := p.Data.Dims()
				raw := p.Data.RawMatrix()
				data := make([]float64, 0, r*c)
				for i := 0; i < r; i++ {
					data = append(data, raw.Data[i*raw.Stride:i*raw.Stride+c]...)
				}
				ck.Params = append(ck.Params, hub.ParamBlock{
					Name: n.Path() + "/" + p.Name,
					Rows: r,
					Cols: c,
					Data: data,
				})
			}
			return true
		})
	}
	return ck
}

// SaveFinetuned writes the delta config and checkpoint into dir, creating it
// if needed.
func (m *ModelBase) SaveFinetuned(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	cfgJSON, err := json.MarshalIndent(m.cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, hub.ConfigFile), cfgJSON, 0o644); err != nil {
		return err
	}
	ckJSON, err := json.MarshalIndent(m.Checkpoint(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, hub.CheckpointFile), ckJSON, 0o644); err != nil {
		return err
	}
	m.log.Infof("saved %s delta to %s", m.cfg.DeltaType(), dir)
	if rec, ok := m.sink.(metrics.SaveRecorder); ok {
		_ = rec.RecordSave(metrics.SaveEvent{
			DeltaType: m.cfg.DeltaType(),
			Location:  dir,
			Params:    m.NumParams(),
			Time:      time.Now(),
		})
	}
	return nil
}
