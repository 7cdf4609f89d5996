package metrics

import "io"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordModuleLoad forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordModuleLoad(ev ModuleLoadEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordModuleLoad(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAttach forwards attach events to sinks that support them.
func (m *MultiSink) RecordAttach(ev AttachEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(AttachRecorder); ok {
			if err := rec.RecordAttach(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRestore forwards restore events to sinks that support them.
func (m *MultiSink) RecordRestore(ev RestoreEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RestoreRecorder); ok {
			if err := rec.RecordRestore(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSave forwards save events to sinks that support them.
func (m *MultiSink) RecordSave(ev SaveEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SaveRecorder); ok {
			if err := rec.RecordSave(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases every sink that holds external resources, returning the
// first error encountered.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
