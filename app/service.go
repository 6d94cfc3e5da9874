// Package app wires the planner, scheduler, metrics and publishers into one
// service.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kochimetro/induction/config"
	"github.com/kochimetro/induction/core/events"
	"github.com/kochimetro/induction/core/induction"
	coremetrics "github.com/kochimetro/induction/core/metrics"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/slotting"
	"github.com/kochimetro/induction/infra/logger"
	"github.com/kochimetro/induction/infra/metrics"
	"github.com/kochimetro/induction/infra/mqtt"
	"github.com/kochimetro/induction/internal/eventbus"
)

// NightPlan bundles both layers of one nightly planning run.
type NightPlan struct {
	RunID    string             `json:"run_id"`
	Plan     *induction.Result  `json:"induction_plan"`
	Schedule *slotting.Result   `json:"departure_schedule"`
	Status   model.SolverStatus `json:"status"`
}

// Service orchestrates the two-layer planning pipeline.
type Service struct {
	Planner   *induction.Planner
	Scheduler *slotting.Scheduler
	bus       eventbus.EventBus
	sink      coremetrics.MetricsSink
	pub       mqtt.PlanPublisher
	log       logger.Logger
	promAddr  string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	svc := &Service{
		Planner:   induction.NewPlanner(cfg.Planner.ToInduction(), logger.New("induction")),
		Scheduler: slotting.NewScheduler(cfg.Slotting.ToSlotting(), logger.New("slotting")),
		bus:       eventbus.New(),
		sink:      sink,
		log:       logg,
		promAddr:  promAddress(cfg.Metrics),
	}

	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
	}
	return svc, nil
}

// promAddress extracts the Prometheus listen address from the sink
// configuration, or returns "" when no prometheus sink is configured.
func promAddress(cfg coremetrics.Config) string {
	for _, s := range cfg.Sinks {
		if s.Type != "prometheus" {
			continue
		}
		if port, ok := s.Conf["prometheus_port"].(string); ok && port != "" {
			return port
		}
		return ":2112"
	}
	return ""
}

// Start launches the background consumers: the metrics collector and, when
// configured, the MQTT publisher and Prometheus endpoint. It returns
// immediately; the consumers stop when the context is canceled.
func (s *Service) Start(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.pub != nil {
		mqtt.StartEventPublisher(ctx, s.bus, s.pub, s.log)
	}
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
}

// RunPlan executes the Layer-1 fleet partition and announces the result.
func (s *Service) RunPlan(ctx context.Context, input model.PlanningInput) (string, *induction.Result, error) {
	runID := uuid.NewString()
	plan, err := s.Planner.Plan(ctx, input)
	if err != nil {
		return runID, nil, err
	}
	s.log.Infof("run %s: plan %s, %d service, %d standby, %d maintenance",
		runID, plan.Metadata.Status, len(plan.ServiceTrains), len(plan.StandbyTrains), len(plan.MaintenanceTrains))
	s.bus.Publish(events.PlanEvent{RunID: runID, Result: plan})
	return runID, plan, nil
}

// RunSchedule executes the Layer-2 slot assignment over the plan's service
// and standby trains and announces the result.
func (s *Service) RunSchedule(ctx context.Context, runID string, plan *induction.Result, day slotting.ServiceDay) (*slotting.Result, error) {
	vehicles := SlotCandidates(plan)
	sched, err := s.Scheduler.Schedule(ctx, vehicles, day, plan.ServiceDate)
	if err != nil {
		return nil, err
	}
	s.log.Infof("run %s: schedule %s, %d departures, %d shunting moves",
		runID, sched.Status, len(sched.Assignments), len(sched.ShuntingOps))
	s.bus.Publish(events.ScheduleEvent{RunID: runID, Result: sched})
	return sched, nil
}

// RunSlots executes the Layer-2 slot assignment over caller-supplied
// candidates, outside any Layer-1 run, and announces the result.
func (s *Service) RunSlots(ctx context.Context, vehicles []slotting.Vehicle, day slotting.ServiceDay, date model.Date) (string, *slotting.Result, error) {
	runID := uuid.NewString()
	sched, err := s.Scheduler.Schedule(ctx, vehicles, day, date)
	if err != nil {
		return runID, nil, err
	}
	s.bus.Publish(events.ScheduleEvent{RunID: runID, Result: sched})
	return runID, sched, nil
}

// RunNight executes the full two-layer pipeline for one service date.
func (s *Service) RunNight(ctx context.Context, input model.PlanningInput, day slotting.ServiceDay) (*NightPlan, error) {
	runID, plan, err := s.RunPlan(ctx, input)
	if err != nil {
		return nil, err
	}
	sched, err := s.RunSchedule(ctx, runID, plan, day)
	if err != nil {
		return nil, err
	}
	status := plan.Metadata.Status
	if sched.Status == model.StatusInfeasible || status == model.StatusInfeasible {
		status = model.StatusInfeasible
	} else if sched.Status == model.StatusFeasible && status == model.StatusOptimal {
		status = model.StatusFeasible
	}
	return &NightPlan{RunID: runID, Plan: plan, Schedule: sched, Status: status}, nil
}

// SlotCandidates converts a plan's service and standby trains into slot
// candidates, positioned where the parking step stabled them.
func SlotCandidates(plan *induction.Result) []slotting.Vehicle {
	parked := make(map[string]induction.ParkingAssignment, len(plan.ParkingAssignments))
	for _, p := range plan.ParkingAssignments {
		parked[p.TrainID] = p
	}
	scores := make(map[string]int, len(plan.Scores))
	for i := range plan.Scores {
		scores[plan.Scores[i].TrainID] = i
	}

	ids := make([]string, 0, len(plan.ServiceTrains)+len(plan.StandbyTrains))
	ids = append(ids, plan.ServiceTrains...)
	ids = append(ids, plan.StandbyTrains...)

	vehicles := make([]slotting.Vehicle, 0, len(ids))
	for _, id := range ids {
		p, ok := parked[id]
		if !ok {
			continue
		}
		v := slotting.Vehicle{ID: id, Track: p.Track, Position: p.Position}
		if i, ok := scores[id]; ok {
			v.Readiness = plan.Scores[i].Value
			v.BrandingUrgency = plan.Scores[i].BrandingUrgency
			v.Summary = plan.Scores[i].Summary
		}
		vehicles = append(vehicles, v)
	}
	return vehicles
}

// Close releases resources held by the service.
func (s *Service) Close() {
	if s.pub != nil {
		s.pub.Close()
	}
	s.bus.Close()
}
