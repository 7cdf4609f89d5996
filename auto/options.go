package auto

import (
	"github.com/deltakit/deltakit/core/delta"
	"github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/core/logger"
	"github.com/deltakit/deltakit/core/metrics"
	infrahub "github.com/deltakit/deltakit/infra/hub"
)

// Option adjusts how the factories build configs and models.
type Option func(*options)

type options struct {
	config       delta.Config
	loader       hub.Loader
	sink         metrics.Sink
	log          logger.Logger
	skipChecksum bool
	fields       map[string]any
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// hubLoader returns the configured artifact loader, defaulting to the local
// filesystem loader.
func (o *options) hubLoader() hub.Loader {
	if o.loader != nil {
		return o.loader
	}
	return infrahub.NewLocalLoader()
}

// WithConfig supplies an already built config, skipping config resolution
// when restoring from an artifact.
func WithConfig(cfg delta.Config) Option {
	return func(o *options) { o.config = cfg }
}

// WithLoader sets the artifact loader.
func WithLoader(l hub.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithSink routes factory and model events to the given metrics sink.
func WithSink(s metrics.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithLogger sets the logger passed to restore operations.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithSkipChecksum disables backbone checksum verification during restore.
func WithSkipChecksum() Option {
	return func(o *options) { o.skipChecksum = true }
}

// WithFields overlays extra fields on top of a loaded config mapping.
func WithFields(fields map[string]any) Option {
	return func(o *options) { o.fields = fields }
}
