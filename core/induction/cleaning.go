package induction

import (
	"time"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

const cleaningOverdueDays = 7

// assignCleaning berths every overdue, non-maintenance train into the
// nightly cleaning window: highest readiness first, round-robin across the
// available slots, with start times staggered by crew availability.
func (p *Planner) assignCleaning(input model.PlanningInput, scores map[string]readiness.Score, roles map[string]model.Role) []CleaningAssignment {
	ref := input.ServiceDate.Time

	var due []model.Train
	for _, t := range input.Trains {
		if roles[t.ID] == model.RoleMaintenance {
			continue
		}
		if t.LastDeepClean.DaysSince(ref) > cleaningOverdueDays {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}

	var slots []model.CleaningSlot
	for _, s := range input.CleaningSlots {
		if s.Available {
			slots = append(slots, s)
		}
	}
	if len(slots) == 0 {
		return nil
	}

	windowStart, err := time.Parse("15:04:05", p.cfg.CleaningWindowStart)
	if err != nil {
		windowStart, _ = time.Parse("15:04:05", DefaultConfig().CleaningWindowStart)
	}

	capacity := len(slots) * input.CleaningCrews
	current := windowStart
	var assignments []CleaningAssignment
	for i, t := range byReadinessDesc(due, scores) {
		if i >= capacity {
			break
		}
		duration := t.CleaningDurationHours
		if duration <= 0 {
			duration = 3
		}
		end := current.Add(time.Duration(duration * float64(time.Hour)))
		assignments = append(assignments, CleaningAssignment{
			TrainID:   t.ID,
			SlotID:    slots[i%len(slots)].ID,
			StartTime: current.Format("15:04:05"),
			EndTime:   end.Format("15:04:05"),
			Crew:      i%input.CleaningCrews + 1,
			Priority:  int(scores[t.ID].Value),
			Reason:    "overdue for deep cleaning",
		})
		// Once every crew is busy the next batch starts after this one ends.
		if (i+1)%input.CleaningCrews == 0 {
			current = end
		}
	}
	return assignments
}
