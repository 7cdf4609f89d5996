// Package app wires configuration into a ready-to-use deltakit runtime:
// logger, metrics sink, artifact loader, error monitor and the process-wide
// registries.
package app

import (
	"fmt"
	"io"
	"time"

	"github.com/deltakit/deltakit/auto"
	"github.com/deltakit/deltakit/catalog"
	"github.com/deltakit/deltakit/config"
	"github.com/deltakit/deltakit/core/hub"
	"github.com/deltakit/deltakit/core/logger"
	coremetrics "github.com/deltakit/deltakit/core/metrics"
	coremon "github.com/deltakit/deltakit/core/monitoring"
	infrahub "github.com/deltakit/deltakit/infra/hub"
	infralogger "github.com/deltakit/deltakit/infra/logger"
	inframon "github.com/deltakit/deltakit/infra/monitoring"

	// Built-in sink registration.
	_ "github.com/deltakit/deltakit/infra/metrics"
)

// Runtime bundles the shared dependencies built from one configuration.
type Runtime struct {
	Log     logger.Logger
	Sink    coremetrics.Sink
	Loader  hub.Loader
	Monitor coremon.Monitor
}

// New builds a Runtime from the configuration and installs its logger, sink
// and monitor as the defaults of the process-wide registries. Call it before
// the registries are first used; later calls only affect the returned
// Runtime.
func New(cfg *config.Config) (*Runtime, error) {
	infralogger.Configure(cfg.Logging.Env, cfg.Logging.Level)
	logg := infralogger.New("deltakit")

	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	mon, err := inframon.NewSentryMonitor(cfg.Monitoring)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}
	coremon.Init(mon)

	catalog.Configure(infralogger.New("registry"), sink)
	return &Runtime{Log: logg, Sink: sink, Loader: loaderFor(cfg.Hub), Monitor: mon}, nil
}

func loaderFor(cfg config.HubConfig) hub.Loader {
	if cfg.BaseURL != "" {
		return infrahub.NewHTTPLoader(cfg.BaseURL, cfg.Credentials())
	}
	if cfg.ArtifactRoot != "" {
		return infrahub.NewLocalLoaderWithRoot(cfg.ArtifactRoot)
	}
	return infrahub.NewLocalLoader()
}

// Options returns the auto factory options carrying the runtime's loader,
// sink and logger.
func (r *Runtime) Options() []auto.Option {
	return []auto.Option{
		auto.WithLoader(r.Loader),
		auto.WithSink(r.Sink),
		auto.WithLogger(r.Log),
	}
}

// Close flushes the monitor and releases resources held by the runtime's
// sinks.
func (r *Runtime) Close() error {
	if r.Monitor != nil {
		r.Monitor.Flush(2 * time.Second)
	}
	if c, ok := r.Sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
