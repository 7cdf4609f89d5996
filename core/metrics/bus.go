package metrics

import "github.com/deltakit/deltakit/internal/eventbus"

// BusSink publishes every event onto an in-process bus. Embedding
// applications subscribe to watch catalog activity without running a
// metrics backend; subscribers type-switch on the event structs. BusSink is
// constructed programmatically and combined with other sinks through
// MultiSink, it is not part of the config-driven sink registry.
type BusSink struct {
	bus *eventbus.Bus[any]
}

// NewBusSink creates a sink backed by a fresh bus.
func NewBusSink() *BusSink {
	return &BusSink{bus: eventbus.New[any]()}
}

// Subscribe registers an event subscriber.
func (s *BusSink) Subscribe() <-chan any { return s.bus.Subscribe() }

// Unsubscribe removes a subscriber and closes its channel.
func (s *BusSink) Unsubscribe(sub <-chan any) { s.bus.Unsubscribe(sub) }

func (s *BusSink) RecordModuleLoad(ev ModuleLoadEvent) error {
	s.bus.Publish(ev)
	return nil
}

func (s *BusSink) RecordAttach(ev AttachEvent) error {
	s.bus.Publish(ev)
	return nil
}

func (s *BusSink) RecordRestore(ev RestoreEvent) error {
	s.bus.Publish(ev)
	return nil
}

func (s *BusSink) RecordSave(ev SaveEvent) error {
	s.bus.Publish(ev)
	return nil
}

// Close shuts the bus down, closing all subscriber channels.
func (s *BusSink) Close() error {
	s.bus.Close()
	return nil
}
