package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/fieldops/core/logger"
	coremetrics "github.com/kilianp07/fieldops/core/metrics"
	infralogger "github.com/kilianp07/fieldops/infra/logger"
)

// InfluxSink writes assignment events to an InfluxDB instance using the
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
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
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

// RecordAssignment writes the decisions as line protocol points.
func (s *InfluxSink) RecordAssignment(recs []coremetrics.AssignmentRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		ts := r.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		p := influxdb2.NewPoint("assignment",
			map[string]string{
				"phase":   r.Phase,
				"outcome": r.Outcome,
			},
			map[string]any{
				"dispatch_number": r.DispatchNumber,
				"technician_id":   r.TechnicianID,
				"date":            r.Date.String(),
				"start_time":      r.StartTime.String(),
				"used_fallback":   r.UsedFallback,
				"correlation_id":  r.CorrelationID,
			},
			ts,
		)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordCommandLatency writes latency samples.
func (s *InfluxSink) RecordCommandLatency(recs []coremetrics.CommandLatency) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		p := influxdb2.NewPoint("assignment_latency",
			map[string]string{"phase": r.Phase},
			map[string]any{
				"latency_ms":     float64(r.Latency) / float64(time.Millisecond),
				"failed":         r.Failed,
				"correlation_id": r.CorrelationID,
			},
			time.Now(),
		)
		points = append(points, p)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}
