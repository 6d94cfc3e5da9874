package induction

import (
	"time"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

// CleaningAssignment schedules one overdue train into a cleaning berth.
type CleaningAssignment struct {
	TrainID   string `json:"train_id"`
	SlotID    string `json:"slot_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Crew      int    `json:"crew_assigned"`
	Priority  int    `json:"priority"`
	Reason    string `json:"reason"`
}

// ParkingAssignment places one train on a track with its relocation cost.
type ParkingAssignment struct {
	TrainID       string   `json:"train_id"`
	Track         string   `json:"track_id"`
	Position      int      `json:"position_in_track"`
	MovesRequired int      `json:"moves_required"`
	Path          []string `json:"shunting_path,omitempty"`
}

// CleaningPriority explains how urgently a train needs its next deep clean.
type CleaningPriority struct {
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}

// Explanation is the operator-facing narrative of a Layer-1 run.
type Explanation struct {
	Summary            string                      `json:"summary"`
	MaintenanceReasons map[string][]string         `json:"maintenance_reasons"`
	ServiceReasons     map[string][]string         `json:"service_reasons"`
	CleaningPriorities map[string]CleaningPriority `json:"cleaning_priorities"`
	ParkingNote        string                      `json:"parking_note"`
}

// Metadata records how the solution was obtained.
type Metadata struct {
	Status          model.SolverStatus `json:"solver_status"`
	ObjectiveValue  float64            `json:"objective_value"`
	WallTimeSeconds float64            `json:"wall_time_seconds"`
	RequiredTrains  int                `json:"required_trains"`
	StandbyTrains   int                `json:"standby_trains"`
}

// Result is the complete, immutable outcome of one induction run.
type Result struct {
	ServiceDate         model.Date           `json:"service_date"`
	Scores              []readiness.Score    `json:"readiness_scores"`
	CleaningAssignments []CleaningAssignment `json:"cleaning_assignments"`
	ParkingAssignments  []ParkingAssignment  `json:"parking_assignments"`
	ServiceTrains       []string             `json:"trains_to_service"`
	StandbyTrains       []string             `json:"trains_to_standby"`
	MaintenanceTrains   []string             `json:"trains_to_maintenance"`
	Explanation         Explanation          `json:"explanation"`
	TotalShuntingMoves  int                  `json:"total_shunting_moves"`
	Metadata            Metadata             `json:"metadata"`
}

// Roles returns the role of every train in the result.
func (r *Result) Roles() map[string]model.Role {
	roles := make(map[string]model.Role, len(r.ServiceTrains)+len(r.StandbyTrains)+len(r.MaintenanceTrains))
	for _, id := range r.ServiceTrains {
		roles[id] = model.RoleService
	}
	for _, id := range r.StandbyTrains {
		roles[id] = model.RoleStandby
	}
	for _, id := range r.MaintenanceTrains {
		roles[id] = model.RoleMaintenance
	}
	return roles
}

// Config tunes the induction planner.
type Config struct {
	// TimeBudget bounds the role solver; expiry degrades to the heuristic.
	TimeBudget time.Duration
	// CleaningWindowStart is the wall-clock start of the nightly cleaning
	// window, formatted HH:MM:SS.
	CleaningWindowStart string
}

// DefaultConfig mirrors the control-room defaults.
func DefaultConfig() Config {
	return Config{
		TimeBudget:          5 * time.Minute,
		CleaningWindowStart: "20:00:00",
	}
}
