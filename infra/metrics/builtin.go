package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/deltakit/deltakit/core/factory"
	coremetrics "github.com/deltakit/deltakit/core/metrics"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterSink("nop", func(map[string]any) (coremetrics.Sink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSink("prometheus", func(map[string]any) (coremetrics.Sink, error) {
		return NewPromSinkWithRegistry(coremetrics.Config{}, prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterSink("influx", func(conf map[string]any) (coremetrics.Sink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coremetrics.RegisterSink("journal", func(conf map[string]any) (coremetrics.Sink, error) {
		var c journalConf
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		store, err := openJournalStore(c)
		if err != nil {
			return nil, err
		}
		return NewJournalSink(store), nil
	})
}
