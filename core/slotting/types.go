// Package slotting orders service-eligible trains into the day's departure
// slots. It trades readiness and slot priority against the cost of shunting
// moves implied by shared-bay geometry, using a branch-and-bound search over
// slot assignments.
package slotting

import (
	"time"

	"github.com/kochimetro/induction/core/model"
)

// Vehicle is one slot-assignment candidate: a parked train with its
// readiness data.
type Vehicle struct {
	ID              string  `json:"train_id"`
	Track           string  `json:"bay"`
	Position        int     `json:"position"`
	Readiness       float64 `json:"readiness"`
	BrandingUrgency int     `json:"branding_urgency"`
	Summary         string  `json:"readiness_summary,omitempty"`
}

// Weights are the objective coefficients. The shunting penalty dominates
// every other term, so avoiding a yard move outweighs any single bonus.
type Weights struct {
	Readiness       int `json:"readiness"`
	ShuntingPenalty int `json:"shunting_penalty"`
	PriorityBonus   int `json:"priority_bonus"`
	PositionBonus   int `json:"position_bonus"`
	BrandingSlot    int `json:"branding_slot"`
}

// DefaultWeights mirrors the production tuning.
func DefaultWeights() Weights {
	return Weights{
		Readiness:       1000,
		ShuntingPenalty: 5000,
		PriorityBonus:   2000,
		PositionBonus:   800,
		BrandingSlot:    50,
	}
}

// Config tunes the slot scheduler.
type Config struct {
	// Slots is K, the number of departure slots to fill.
	Slots int
	// PrioritySlots marks the first N slots as priority slots.
	PrioritySlots int
	// HighReadiness is the score threshold for the priority-slot bonus.
	HighReadiness float64
	// TimeBudget bounds the search; expiry keeps the best incumbent.
	TimeBudget time.Duration
	Weights    Weights
}

// DefaultConfig mirrors the production departure board: eight slots, the
// first three being priority slots.
func DefaultConfig() Config {
	return Config{
		Slots:         8,
		PrioritySlots: 3,
		HighReadiness: 90,
		TimeBudget:    2 * time.Minute,
		Weights:       DefaultWeights(),
	}
}

// Rationale explains one selection or rejection in fixed taxonomy terms.
type Rationale struct {
	PrimaryReason    string   `json:"primary_reason"`
	SecondaryFactors []string `json:"secondary_factors,omitempty"`
	Details          string   `json:"details,omitempty"`
}

// Assignment is one departing train: its slot and the flags derived from bay
// geometry.
type Assignment struct {
	TrainID       string    `json:"train_id"`
	Track         string    `json:"bay"`
	Position      int       `json:"bay_position"`
	Readiness     float64   `json:"readiness"`
	Slot          int       `json:"departure_slot"`
	NeedsShunting bool      `json:"needs_shunting"`
	PrioritySlot  bool      `json:"is_priority_slot"`
	Rationale     Rationale `json:"scheduling_rationale"`
}

// StandbyVehicle is a candidate left off the departure board for the day.
type StandbyVehicle struct {
	TrainID   string    `json:"train_id"`
	Track     string    `json:"bay"`
	Position  int       `json:"bay_position"`
	Readiness float64   `json:"readiness"`
	Rationale Rationale `json:"scheduling_rationale"`
}

// ShuntingOp is one forced relocation implied by the final schedule.
type ShuntingOp struct {
	TrainID  string `json:"train_id"`
	Track    string `json:"bay"`
	Position int    `json:"position"`
	Reason   string `json:"reason"`
}

// Result is the complete, immutable outcome of one slot-scheduling run.
// Status is always set; infeasible runs carry no assignments.
type Result struct {
	Status          model.SolverStatus `json:"solver_status"`
	Note            string             `json:"note,omitempty"`
	ObjectiveValue  int                `json:"objective_value"`
	Assignments     []Assignment       `json:"optimized_assignments"`
	Standby         []StandbyVehicle   `json:"standby_trains"`
	ShuntingOps     []ShuntingOp       `json:"trains_requiring_shunting"`
	Timetable       Timetable          `json:"timetable_info"`
	Slots           []int              `json:"departure_slots"`
	ServiceDate     model.Date         `json:"service_date"`
	WallTimeSeconds float64            `json:"wall_time_seconds"`
}
