package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/deltakit/deltakit/core/metrics"
	"github.com/deltakit/deltakit/infra/logger"
)

// InfluxSink writes deltakit events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordModuleLoad writes a lazy module load as a line protocol event.
func (s *InfluxSink) RecordModuleLoad(ev coremetrics.ModuleLoadEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delta_module_load").
		AddTag("key", ev.Key).
		AddTag("status", loadStatus(ev.Err)).
		AddField("module", ev.Module).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("errors", ev.Err).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAttach persists a delta attachment event.
func (s *InfluxSink) RecordAttach(ev coremetrics.AttachEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delta_attach").
		AddTag("delta_type", ev.DeltaType).
		AddTag("backbone", ev.Backbone).
		AddField("model_id", ev.ModelID).
		AddField("params", ev.Params).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRestore persists a checkpoint restore event.
func (s *InfluxSink) RecordRestore(ev coremetrics.RestoreEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delta_restore").
		AddTag("delta_type", ev.DeltaType).
		AddTag("status", loadStatus(ev.Err)).
		AddField("location", ev.Location).
		AddField("params", ev.Params).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("errors", ev.Err).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSave persists a checkpoint save event.
func (s *InfluxSink) RecordSave(ev coremetrics.SaveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("delta_save").
		AddTag("delta_type", ev.DeltaType).
		AddField("location", ev.Location).
		AddField("params", ev.Params).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying InfluxDB client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
