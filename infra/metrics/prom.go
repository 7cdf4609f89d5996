package metrics

import (
	coremetrics "github.com/deltakit/deltakit/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records deltakit events in Prometheus metrics.
type PromSink struct {
	loads    *prometheus.CounterVec
	attaches *prometheus.CounterVec
	params   *prometheus.GaugeVec
	restores *prometheus.HistogramVec
	saves    *prometheus.CounterVec
}

// NewPromSink registers deltakit metrics on the default Prometheus registerer.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delta_module_loads_total",
		Help: "Total number of lazy delta module loads",
	}, []string{"key", "status"})
	attaches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delta_attach_events_total",
		Help: "Total number of delta models attached to a backbone",
	}, []string{"delta_type", "backbone"})
	params := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "delta_trainable_parameters",
		Help: "Trainable parameters introduced by the last attached delta",
	}, []string{"delta_type"})
	restores := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "delta_restore_seconds",
		Help:    "Time to restore a finetuned delta checkpoint",
		Buckets: prometheus.DefBuckets,
	}, []string{"delta_type", "status"})
	saves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "delta_save_events_total",
		Help: "Total number of delta checkpoints written",
	}, []string{"delta_type"})

	if err := reg.Register(loads); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			loads = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(attaches); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			attaches = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(params); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			params = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(restores); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			restores = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(saves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			saves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{loads: loads, attaches: attaches, params: params, restores: restores, saves: saves}, nil
}

// RecordModuleLoad increments the load counter for the registry key.
func (s *PromSink) RecordModuleLoad(ev coremetrics.ModuleLoadEvent) error {
	s.loads.WithLabelValues(ev.Key, loadStatus(ev.Err)).Inc()
	return nil
}

// RecordAttach counts the attachment and tracks the delta parameter gauge.
func (s *PromSink) RecordAttach(ev coremetrics.AttachEvent) error {
	s.attaches.WithLabelValues(ev.DeltaType, ev.Backbone).Inc()
	s.params.WithLabelValues(ev.DeltaType).Set(float64(ev.Params))
	return nil
}

// RecordRestore observes the restore duration histogram.
func (s *PromSink) RecordRestore(ev coremetrics.RestoreEvent) error {
	s.restores.WithLabelValues(ev.DeltaType, loadStatus(ev.Err)).Observe(ev.Duration.Seconds())
	return nil
}

// RecordSave increments the checkpoint save counter.
func (s *PromSink) RecordSave(ev coremetrics.SaveEvent) error {
	s.saves.WithLabelValues(ev.DeltaType).Inc()
	return nil
}

func loadStatus(errStr string) string {
	if errStr != "" {
		return "error"
	}
	return "ok"
}
