package metrics

import (
	"context"
	"time"

	"github.com/kochimetro/induction/core/events"
	coremetrics "github.com/kochimetro/induction/core/metrics"
	"github.com/kochimetro/induction/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// plan and schedule events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanEvent:
					recordPlan(sink, e)
				case events.ScheduleEvent:
					recordSchedule(sink, e)
				}
			}
		}
	}()
}

func recordPlan(sink coremetrics.MetricsSink, e events.PlanEvent) {
	if e.Result == nil {
		return
	}
	now := time.Now()
	_ = sink.RecordSolve(coremetrics.SolveEvent{
		Layer:          coremetrics.LayerInduction,
		Status:         e.Result.Metadata.Status,
		ObjectiveValue: e.Result.Metadata.ObjectiveValue,
		WallTime:       time.Duration(e.Result.Metadata.WallTimeSeconds * float64(time.Second)),
		Time:           now,
	})
	if r, ok := sink.(coremetrics.FleetPartitionRecorder); ok {
		_ = r.RecordFleetPartition(coremetrics.FleetPartitionEvent{
			Service:     len(e.Result.ServiceTrains),
			Standby:     len(e.Result.StandbyTrains),
			Maintenance: len(e.Result.MaintenanceTrains),
			Time:        now,
		})
	}
	if r, ok := sink.(coremetrics.ShuntingRecorder); ok {
		_ = r.RecordShunting(coremetrics.ShuntingEvent{
			Layer: coremetrics.LayerInduction,
			Moves: e.Result.TotalShuntingMoves,
			Time:  now,
		})
	}
	if r, ok := sink.(coremetrics.ReadinessRecorder); ok {
		samples := make([]coremetrics.ReadinessSample, 0, len(e.Result.Scores))
		for _, score := range e.Result.Scores {
			samples = append(samples, coremetrics.ReadinessSample{
				TrainID: score.TrainID,
				Score:   score.Value,
				Time:    now,
			})
		}
		_ = r.RecordReadiness(samples)
	}
}

func recordSchedule(sink coremetrics.MetricsSink, e events.ScheduleEvent) {
	if e.Result == nil {
		return
	}
	now := time.Now()
	_ = sink.RecordSolve(coremetrics.SolveEvent{
		Layer:          coremetrics.LayerSlotting,
		Status:         e.Result.Status,
		ObjectiveValue: float64(e.Result.ObjectiveValue),
		WallTime:       time.Duration(e.Result.WallTimeSeconds * float64(time.Second)),
		Time:           now,
	})
	if r, ok := sink.(coremetrics.ShuntingRecorder); ok {
		_ = r.RecordShunting(coremetrics.ShuntingEvent{
			Layer: coremetrics.LayerSlotting,
			Moves: len(e.Result.ShuntingOps),
			Time:  now,
		})
	}
	if r, ok := sink.(coremetrics.SlotRecorder); ok {
		for _, a := range e.Result.Assignments {
			_ = r.RecordSlotAssignment(coremetrics.SlotAssignmentEvent{
				TrainID:       a.TrainID,
				Slot:          a.Slot,
				Readiness:     a.Readiness,
				NeedsShunting: a.NeedsShunting,
				Time:          now,
			})
		}
	}
}
