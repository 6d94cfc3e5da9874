package metrics

import (
	"strconv"

	coremetrics "github.com/kochimetro/induction/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	objective *prometheus.GaugeVec
	partition *prometheus.GaugeVec
	shunting  *prometheus.GaugeVec
	readiness *prometheus.GaugeVec
	slots     *prometheus.CounterVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_runs_total",
		Help: "Total number of optimizer runs by layer and status",
	}, []string{"layer", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planning_solve_duration_seconds",
		Help:    "Wall time spent in the optimizer",
		Buckets: prometheus.DefBuckets,
	}, []string{"layer"})
	objective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planning_objective_value",
		Help: "Objective value of the last completed run",
	}, []string{"layer"})
	partition := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planning_fleet_role_total",
		Help: "Number of trains per role in the last induction plan",
	}, []string{"role"})
	shunting := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planning_shunting_moves",
		Help: "Shunting moves required by the last plan",
	}, []string{"layer"})
	readiness := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "planning_readiness_score",
		Help: "Composite readiness score per train",
	}, []string{"train_id"})
	slots := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planning_departures_total",
		Help: "Scheduled departures by slot and shunting requirement",
	}, []string{"slot", "needs_shunting"})

	collectors := []prometheus.Collector{solves, duration, objective, partition, shunting, readiness, slots}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		solves:    collectors[0].(*prometheus.CounterVec),
		duration:  collectors[1].(*prometheus.HistogramVec),
		objective: collectors[2].(*prometheus.GaugeVec),
		partition: collectors[3].(*prometheus.GaugeVec),
		shunting:  collectors[4].(*prometheus.GaugeVec),
		readiness: collectors[5].(*prometheus.GaugeVec),
		slots:     collectors[6].(*prometheus.CounterVec),
	}, nil
}

// RecordSolve increments the run counter and records solve duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Layer, string(ev.Status)).Inc()
	s.duration.WithLabelValues(ev.Layer).Observe(ev.WallTime.Seconds())
	s.objective.WithLabelValues(ev.Layer).Set(ev.ObjectiveValue)
	return nil
}

// RecordFleetPartition sets the per-role gauges.
func (s *PromSink) RecordFleetPartition(ev coremetrics.FleetPartitionEvent) error {
	s.partition.WithLabelValues("service").Set(float64(ev.Service))
	s.partition.WithLabelValues("standby").Set(float64(ev.Standby))
	s.partition.WithLabelValues("maintenance").Set(float64(ev.Maintenance))
	return nil
}

// RecordShunting sets the move gauge for the layer.
func (s *PromSink) RecordShunting(ev coremetrics.ShuntingEvent) error {
	s.shunting.WithLabelValues(ev.Layer).Set(float64(ev.Moves))
	return nil
}

// RecordReadiness sets the per-train readiness gauges.
func (s *PromSink) RecordReadiness(samples []coremetrics.ReadinessSample) error {
	for _, sample := range samples {
		s.readiness.WithLabelValues(sample.TrainID).Set(sample.Score)
	}
	return nil
}

// RecordSlotAssignment increments the departure counter.
func (s *PromSink) RecordSlotAssignment(ev coremetrics.SlotAssignmentEvent) error {
	s.slots.WithLabelValues(strconv.Itoa(ev.Slot), strconv.FormatBool(ev.NeedsShunting)).Inc()
	return nil
}
