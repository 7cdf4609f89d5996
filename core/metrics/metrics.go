package metrics

import "time"

// ModuleLoadEvent describes the materialization of a lazily registered delta
// module. One event is emitted per registry key the first time its loader
// runs, whether or not the load succeeded.
type ModuleLoadEvent struct {
	Key      string
	Module   string
	Duration time.Duration
	Err      string
	Time     time.Time
}

// Sink records module load events for observability purposes.
type Sink interface {
	RecordModuleLoad(ev ModuleLoadEvent) error
}

// AttachEvent describes a delta model being attached to a backbone.
type AttachEvent struct {
	DeltaType string
	ModelID   string
	Backbone  string
	Params    int
	Duration  time.Duration
	Time      time.Time
}

// AttachRecorder records delta attachment events.
type AttachRecorder interface {
	RecordAttach(ev AttachEvent) error
}

// RestoreEvent describes a finetuned delta checkpoint being restored onto a
// backbone.
type RestoreEvent struct {
	DeltaType string
	Location  string
	Params    int
	Err       string
	Duration  time.Duration
	Time      time.Time
}

// RestoreRecorder records checkpoint restore events.
type RestoreRecorder interface {
	RecordRestore(ev RestoreEvent) error
}

// SaveEvent describes a delta checkpoint being written to disk.
type SaveEvent struct {
	DeltaType string
	Location  string
	Params    int
	Time      time.Time
}

// SaveRecorder records checkpoint save events.
type SaveRecorder interface {
	RecordSave(ev SaveEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordModuleLoad(ModuleLoadEvent) error { return nil }
func (NopSink) RecordAttach(AttachEvent) error         { return nil }
func (NopSink) RecordRestore(RestoreEvent) error       { return nil }
func (NopSink) RecordSave(SaveEvent) error             { return nil }
