package model

import "fmt"

// Role is the daily operational assignment of one train. Every train gets
// exactly one role per planning run.
type Role string

const (
	RoleService     Role = "service"
	RoleStandby     Role = "standby"
	RoleMaintenance Role = "maintenance"
)

// SolverStatus labels how an optimizer result was obtained so operators can
// tell optimal, feasible, degraded and failed runs apart.
type SolverStatus string

const (
	StatusOptimal    SolverStatus = "optimal"
	StatusFeasible   SolverStatus = "feasible"
	StatusFallback   SolverStatus = "fallback"
	StatusInfeasible SolverStatus = "infeasible"
	StatusError      SolverStatus = "error"
)

// PlanningInput is the complete Layer-1 request for one service day.
type PlanningInput struct {
	Trains         []Train        `json:"trains"`
	CleaningSlots  []CleaningSlot `json:"cleaning_slots"`
	Depot          DepotLayout    `json:"depot_layout"`
	ServiceDate    Date           `json:"date"`
	RequiredTrains int            `json:"required_trains"`
	StandbyTrains  int            `json:"standby_trains"`
	CleaningCrews  int            `json:"cleaning_crew_available"`
}

// Validate rejects malformed inputs before any optimizer is invoked.
func (in PlanningInput) Validate() error {
	if len(in.Trains) == 0 {
		return fmt.Errorf("no trains in roster")
	}
	seen := make(map[string]bool, len(in.Trains))
	for _, t := range in.Trains {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate train id %s", t.ID)
		}
		seen[t.ID] = true
	}
	if err := in.Depot.Validate(); err != nil {
		return err
	}
	if in.RequiredTrains < 0 || in.StandbyTrains < 0 {
		return fmt.Errorf("negative headcount")
	}
	if in.RequiredTrains == 0 {
		return fmt.Errorf("required_trains must be positive")
	}
	if in.CleaningCrews < 1 {
		return fmt.Errorf("at least one cleaning crew is required")
	}
	if in.ServiceDate.IsZero() {
		return fmt.Errorf("service date is required")
	}
	return nil
}
