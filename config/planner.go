package config

import (
	"fmt"
	"time"

	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/slotting"
)

// PlannerConfig tunes the nightly fleet-partition run.
type PlannerConfig struct {
	// TimeBudgetSeconds bounds the role solver; expiry degrades to the
	// heuristic partition.
	TimeBudgetSeconds int `json:"time_budget_seconds"`
	// CleaningWindowStart is the wall-clock start of the nightly cleaning
	// window, formatted HH:MM:SS.
	CleaningWindowStart string `json:"cleaning_window_start"`
}

// SetDefaults applies the control-room defaults.
func (c *PlannerConfig) SetDefaults() {
	if c.TimeBudgetSeconds == 0 {
		c.TimeBudgetSeconds = int(induction.DefaultConfig().TimeBudget / time.Second)
	}
	if c.CleaningWindowStart == "" {
		c.CleaningWindowStart = induction.DefaultConfig().CleaningWindowStart
	}
}

// Validate checks mandatory fields.
func (c PlannerConfig) Validate() error {
	if c.TimeBudgetSeconds <= 0 {
		return fmt.Errorf("time_budget_seconds must be positive")
	}
	if _, err := time.Parse("15:04:05", c.CleaningWindowStart); err != nil {
		return fmt.Errorf("cleaning_window_start: %w", err)
	}
	return nil
}

// ToInduction converts to the planner's own config type.
func (c PlannerConfig) ToInduction() induction.Config {
	return induction.Config{
		TimeBudget:          time.Duration(c.TimeBudgetSeconds) * time.Second,
		CleaningWindowStart: c.CleaningWindowStart,
	}
}

// SlottingConfig tunes the departure-slot scheduler.
type SlottingConfig struct {
	// Slots is the number of departure slots to fill each morning.
	Slots int `json:"slots"`
	// PrioritySlots marks the first N slots as priority slots.
	PrioritySlots int `json:"priority_slots"`
	// HighReadiness is the score threshold for the priority-slot bonus.
	HighReadiness float64 `json:"high_readiness"`
	// TimeBudgetSeconds bounds the search; expiry keeps the best incumbent.
	TimeBudgetSeconds int `json:"time_budget_seconds"`
	// Weights overrides the objective coefficients when non-zero.
	Weights slotting.Weights `json:"weights"`
}

// SetDefaults applies the production departure-board defaults.
func (c *SlottingConfig) SetDefaults() {
	def := slotting.DefaultConfig()
	if c.Slots == 0 {
		c.Slots = def.Slots
	}
	if c.PrioritySlots == 0 {
		c.PrioritySlots = def.PrioritySlots
	}
	if c.HighReadiness == 0 {
		c.HighReadiness = def.HighReadiness
	}
	if c.TimeBudgetSeconds == 0 {
		c.TimeBudgetSeconds = int(def.TimeBudget / time.Second)
	}
	if c.Weights == (slotting.Weights{}) {
		c.Weights = def.Weights
	}
}

// Validate checks mandatory fields.
func (c SlottingConfig) Validate() error {
	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive")
	}
	if c.PrioritySlots < 0 || c.PrioritySlots > c.Slots {
		return fmt.Errorf("priority_slots must be between 0 and slots")
	}
	if c.TimeBudgetSeconds <= 0 {
		return fmt.Errorf("time_budget_seconds must be positive")
	}
	return nil
}

// ToSlotting converts to the scheduler's own config type.
func (c SlottingConfig) ToSlotting() slotting.Config {
	return slotting.Config{
		Slots:         c.Slots,
		PrioritySlots: c.PrioritySlots,
		HighReadiness: c.HighReadiness,
		TimeBudget:    time.Duration(c.TimeBudgetSeconds) * time.Second,
		Weights:       c.Weights,
	}
}
