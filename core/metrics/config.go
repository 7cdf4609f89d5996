package metrics

import "github.com/deltakit/deltakit/core/factory"

// SinkConfig contains the type name and raw configuration for a sink.
type SinkConfig = factory.PluginConfig

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []SinkConfig `json:"sinks"`
	// PrometheusAddr, when set, is the listen address of the Prometheus
	// exposition endpoint started by long-running commands.
	PrometheusAddr string `json:"prometheus_addr"`
}
