package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kochimetro/induction/core/metrics"
	"github.com/kochimetro/induction/infra/logger"
)

// InfluxSink writes planning events to an InfluxDB instance using the
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

// RecordSolve writes the optimizer outcome as a point.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solver_run").
		AddTag("layer", ev.Layer).
		AddTag("status", string(ev.Status)).
		AddTag("component", "planning_pipeline").
		AddField("objective_value", round3(ev.ObjectiveValue)).
		AddField("wall_time_ms", round3(ev.WallTime.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleetPartition persists the role split of an induction plan.
func (s *InfluxSink) RecordFleetPartition(ev coremetrics.FleetPartitionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_partition").
		AddTag("component", "planning_pipeline").
		AddField("service", ev.Service).
		AddField("standby", ev.Standby).
		AddField("maintenance", ev.Maintenance).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordShunting persists the relocation cost of a plan.
func (s *InfluxSink) RecordShunting(ev coremetrics.ShuntingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("shunting_moves").
		AddTag("layer", ev.Layer).
		AddTag("component", "planning_pipeline").
		AddField("moves", ev.Moves).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordReadiness writes one point per scored train.
func (s *InfluxSink) RecordReadiness(samples []coremetrics.ReadinessSample) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, sample := range samples {
		p := write.NewPointWithMeasurement("readiness_score").
			AddTag("train_id", sample.TrainID).
			AddTag("component", "readiness_scorer").
			AddField("score", round3(sample.Score)).
			SetTime(sample.Time)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordSlotAssignment writes one scheduled departure.
func (s *InfluxSink) RecordSlotAssignment(ev coremetrics.SlotAssignmentEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("departure_assignment").
		AddTag("train_id", ev.TrainID).
		AddTag("slot", strconv.Itoa(ev.Slot)).
		AddTag("needs_shunting", strconv.FormatBool(ev.NeedsShunting)).
		AddTag("component", "slot_scheduler").
		AddField("readiness", round3(ev.Readiness)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
