// Package metrics defines interfaces for collecting deltakit events. Sinks
// like PromSink and InfluxSink record module loads, delta attachments and
// checkpoint restores and can be combined with NewMultiSink. The factory
// helpers return a MultiSink automatically when multiple sinks are
// configured.
package metrics
