package metrics

import "github.com/deltakit/deltakit/core/factory"

// SinkFactory constructs a Sink from a raw configuration map.
type SinkFactory = factory.Factory[Sink]

var sinkRegistry = factory.NewRegistry[Sink]()

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f SinkFactory) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes returns the registered sink type names in sorted order.
func SinkTypes() []string {
	return sinkRegistry.Types()
}

// NewSink creates a Sink from the provided configurations. Zero configs yield
// a NopSink, a single config the bare sink, and several a MultiSink.
func NewSink(cfgs []SinkConfig) (Sink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]Sink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
