// Package induction decides, for one service day, which trains run, which
// stand by and which are held for maintenance, then derives cleaning berths,
// parking tracks and relocation costs for the chosen partition.
package induction

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kochimetro/induction/core/depot"
	"github.com/kochimetro/induction/core/logger"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

// Planner runs the Layer-1 induction optimization. A Planner is stateless
// across runs: every Plan call builds a fresh model.
type Planner struct {
	cfg Config
	log logger.Logger
}

// NewPlanner creates a Planner. A nil logger disables logging.
func NewPlanner(cfg Config, log logger.Logger) *Planner {
	if log == nil {
		log = logger.Nop{}
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = DefaultConfig().TimeBudget
	}
	if cfg.CleaningWindowStart == "" {
		cfg.CleaningWindowStart = DefaultConfig().CleaningWindowStart
	}
	return &Planner{cfg: cfg, log: log}
}

// Plan partitions the roster into service, standby and maintenance and
// derives all secondary assignments. Input-shape errors abort the run before
// any solving; solver failures degrade to the deterministic heuristic, so a
// valid input always yields a complete result.
func (p *Planner) Plan(ctx context.Context, input model.PlanningInput) (*Result, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("invalid planning input: %w", err)
	}
	started := time.Now()
	ref := input.ServiceDate.Time
	scores := readiness.EvaluateAll(input.Trains, ref)

	var forced, eligible []model.Train
	for _, t := range input.Trains {
		if readiness.RequiresMaintenance(t) {
			forced = append(forced, t)
		} else {
			eligible = append(eligible, t)
		}
	}

	required, standby := adjustHeadcounts(len(eligible), input.RequiredTrains, input.StandbyTrains)
	if required != input.RequiredTrains || standby != input.StandbyTrains {
		p.log.Warnf("eligible fleet %d short of %d+%d, reduced to %d service / %d standby",
			len(eligible), input.RequiredTrains, input.StandbyTrains, required, standby)
	}

	roles, status := p.solveRoles(ctx, eligible, scores, required, standby)
	for _, t := range forced {
		roles[t.ID] = model.RoleMaintenance
	}

	result := p.buildResult(input, scores, roles)
	result.Metadata.Status = status
	result.Metadata.RequiredTrains = required
	result.Metadata.StandbyTrains = standby
	result.Metadata.WallTimeSeconds = time.Since(started).Seconds()
	p.log.Infof("induction complete: %d service, %d standby, %d maintenance, status=%s",
		len(result.ServiceTrains), len(result.StandbyTrains), len(result.MaintenanceTrains), status)
	return result, nil
}

// solveRoles runs the LP under the configured wall-clock budget and falls
// back to the greedy heuristic on any failure.
func (p *Planner) solveRoles(ctx context.Context, eligible []model.Train, scores map[string]readiness.Score, required, standby int) (map[string]model.Role, model.SolverStatus) {
	if len(eligible) == 0 {
		return map[string]model.Role{}, model.StatusOptimal
	}

	type outcome struct {
		sel roleSelection
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: fmt.Errorf("role solver panic: %v", r)}
			}
		}()
		values := make([]float64, len(eligible))
		for i, t := range eligible {
			values[i] = scores[t.ID].Value
		}
		sel, err := lpSolve(values, required, standby)
		ch <- outcome{sel: sel, err: err}
	}()

	timer := time.NewTimer(p.cfg.TimeBudget)
	defer timer.Stop()
	select {
	case out := <-ch:
		if out.err != nil {
			p.log.Warnf("role solver failed, using heuristic: %v", out.err)
			return heuristicRoles(eligible, scores, required, standby), model.StatusFallback
		}
		roles, ok := rolesFromSelection(eligible, out.sel, required, standby)
		if !ok {
			p.log.Warnf("role solver returned a non-integral partition, using heuristic")
			return heuristicRoles(eligible, scores, required, standby), model.StatusFallback
		}
		return roles, model.StatusOptimal
	case <-timer.C:
		p.log.Warnf("role solver exceeded %s budget, using heuristic", p.cfg.TimeBudget)
		return heuristicRoles(eligible, scores, required, standby), model.StatusFallback
	case <-ctx.Done():
		p.log.Warnf("planning context cancelled, using heuristic")
		return heuristicRoles(eligible, scores, required, standby), model.StatusFallback
	}
}

// rolesFromSelection converts solver shares into roles, verifying the seat
// counts actually match the headcounts.
func rolesFromSelection(eligible []model.Train, sel roleSelection, required, standby int) (map[string]model.Role, bool) {
	roles := make(map[string]model.Role, len(eligible))
	serviceCount, standbyCount := 0, 0
	for i, t := range eligible {
		switch {
		case sel.service[i] && sel.standby[i]:
			return nil, false
		case sel.service[i]:
			roles[t.ID] = model.RoleService
			serviceCount++
		case sel.standby[i]:
			roles[t.ID] = model.RoleStandby
			standbyCount++
		default:
			roles[t.ID] = model.RoleMaintenance
		}
	}
	return roles, serviceCount == required && standbyCount == standby
}

// adjustHeadcounts shrinks the requested headcounts when the eligible fleet
// is short, keeping service seats ahead of standby.
func adjustHeadcounts(eligible, required, standby int) (int, int) {
	if eligible >= required+standby {
		return required, standby
	}
	if eligible < required {
		return eligible, 0
	}
	return required, eligible - required
}

// buildResult derives every secondary artifact from the chosen roles. The
// solver and heuristic paths share this code so their outputs differ only in
// the partition itself.
func (p *Planner) buildResult(input model.PlanningInput, scores map[string]readiness.Score, roles map[string]model.Role) *Result {
	graph := depot.NewGraph(input.Depot.Connections)

	result := &Result{ServiceDate: input.ServiceDate}
	for _, t := range input.Trains {
		result.Scores = append(result.Scores, scores[t.ID])
		switch roles[t.ID] {
		case model.RoleService:
			result.ServiceTrains = append(result.ServiceTrains, t.ID)
		case model.RoleStandby:
			result.StandbyTrains = append(result.StandbyTrains, t.ID)
		default:
			result.MaintenanceTrains = append(result.MaintenanceTrains, t.ID)
		}
	}

	result.CleaningAssignments = p.assignCleaning(input, scores, roles)
	result.ParkingAssignments, result.TotalShuntingMoves = assignParking(input, graph, scores, roles)
	result.Explanation = buildExplanation(input, scores, roles, result.TotalShuntingMoves)
	result.Metadata.ObjectiveValue = objectiveValue(scores, roles)
	return result
}

// objectiveValue reproduces the solver objective for any partition so
// heuristic results report a comparable number.
func objectiveValue(scores map[string]readiness.Score, roles map[string]model.Role) float64 {
	var total float64
	for id, role := range roles {
		switch role {
		case model.RoleService:
			total += scores[id].Value * 100
		case model.RoleStandby:
			total += scores[id].Value * 50
		}
	}
	return total
}

// byReadinessDesc orders trains by descending score, ties by id so runs are
// reproducible.
func byReadinessDesc(trains []model.Train, scores map[string]readiness.Score) []model.Train {
	sorted := make([]model.Train, len(trains))
	copy(sorted, trains)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := scores[sorted[i].ID].Value, scores[sorted[j].ID].Value
		if si != sj {
			return si > sj
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
