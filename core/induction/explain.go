package induction

import (
	"fmt"

	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

// buildExplanation assembles the operator-facing narrative: why each train
// was held for maintenance, what qualified the service picks, and which
// trains are nearing their cleaning deadline.
func buildExplanation(input model.PlanningInput, scores map[string]readiness.Score, roles map[string]model.Role, totalMoves int) Explanation {
	ex := Explanation{
		MaintenanceReasons: make(map[string][]string),
		ServiceReasons:     make(map[string][]string),
		CleaningPriorities: make(map[string]CleaningPriority),
	}

	counts := map[model.Role]int{}
	for _, t := range input.Trains {
		counts[roles[t.ID]]++
	}
	ex.Summary = fmt.Sprintf("%d trains selected for service, %d on standby, %d held for maintenance",
		counts[model.RoleService], counts[model.RoleStandby], counts[model.RoleMaintenance])
	ex.ParkingNote = fmt.Sprintf("total shunting moves required: %d", totalMoves)

	ref := input.ServiceDate.Time
	for _, t := range input.Trains {
		switch roles[t.ID] {
		case model.RoleMaintenance:
			reasons := readiness.MaintenanceReasons(t)
			if len(reasons) == 0 {
				reasons = []string{"below readiness cut for service and standby quotas"}
			}
			ex.MaintenanceReasons[t.ID] = reasons
		case model.RoleService:
			var reasons []string
			if scores[t.ID].Value > 80 {
				reasons = append(reasons, "high overall readiness score")
			}
			for _, c := range t.BrandingContracts {
				if days := c.Deadline.DaysUntil(ref); days > 0 && c.RemainingHours()/float64(days) > 4 {
					reasons = append(reasons, fmt.Sprintf("urgent branding commitment for %s", c.Brand))
				}
			}
			ex.ServiceReasons[t.ID] = reasons
		}

		if roles[t.ID] == model.RoleMaintenance {
			continue
		}
		days := t.LastDeepClean.DaysSince(ref)
		switch {
		case days > cleaningOverdueDays:
			ex.CleaningPriorities[t.ID] = CleaningPriority{
				Priority: "high",
				Reason:   fmt.Sprintf("last cleaned %d days ago, past the %d-day limit", days, cleaningOverdueDays),
			}
		case days > 5:
			ex.CleaningPriorities[t.ID] = CleaningPriority{
				Priority: "medium",
				Reason:   fmt.Sprintf("last cleaned %d days ago, approaching the %d-day limit", days, cleaningOverdueDays),
			}
		}
	}
	return ex
}
