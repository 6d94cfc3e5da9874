package metrics

import (
	"time"

	"github.com/kochimetro/induction/core/model"
)

// Layer names used to tag solver metrics.
const (
	LayerInduction = "induction"
	LayerSlotting  = "slotting"
)

// SolveEvent represents one optimizer run to be recorded.
type SolveEvent struct {
	Layer          string
	Status         model.SolverStatus
	ObjectiveValue float64
	WallTime       time.Duration
	Time           time.Time
}

// MetricsSink records solver outcomes for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// FleetPartitionEvent captures the role split of one induction plan.
type FleetPartitionEvent struct {
	Service     int
	Standby     int
	Maintenance int
	Time        time.Time
}

// FleetPartitionRecorder records fleet partition snapshots.
type FleetPartitionRecorder interface {
	RecordFleetPartition(ev FleetPartitionEvent) error
}

// ShuntingEvent captures the relocation cost of one plan.
type ShuntingEvent struct {
	Layer string
	Moves int
	Time  time.Time
}

// ShuntingRecorder records shunting move counts.
type ShuntingRecorder interface {
	RecordShunting(ev ShuntingEvent) error
}

// ReadinessSample is one train's composite readiness score.
type ReadinessSample struct {
	TrainID string
	Score   float64
	Time    time.Time
}

// ReadinessRecorder records per-train readiness scores.
type ReadinessRecorder interface {
	RecordReadiness(samples []ReadinessSample) error
}

// SlotAssignmentEvent represents one scheduled departure.
type SlotAssignmentEvent struct {
	TrainID       string
	Slot          int
	Readiness     float64
	NeedsShunting bool
	Time          time.Time
}

// SlotRecorder records departure slot assignments.
type SlotRecorder interface {
	RecordSlotAssignment(ev SlotAssignmentEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error                   { return nil }
func (NopSink) RecordFleetPartition(FleetPartitionEvent) error { return nil }
func (NopSink) RecordShunting(ShuntingEvent) error             { return nil }
func (NopSink) RecordReadiness([]ReadinessSample) error        { return nil }
func (NopSink) RecordSlotAssignment(SlotAssignmentEvent) error { return nil }
