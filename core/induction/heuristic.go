package induction

import (
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

// heuristicRoles is the deterministic fallback partition: eligible trains
// sorted by descending readiness fill the service quota, then standby, and
// the remainder is held for maintenance. It is used whenever the solver
// fails, times out or returns a malformed partition.
func heuristicRoles(eligible []model.Train, scores map[string]readiness.Score, required, standby int) map[string]model.Role {
	roles := make(map[string]model.Role, len(eligible))
	for i, t := range byReadinessDesc(eligible, scores) {
		switch {
		case i < required:
			roles[t.ID] = model.RoleService
		case i < required+standby:
			roles[t.ID] = model.RoleStandby
		default:
			roles[t.ID] = model.RoleMaintenance
		}
	}
	return roles
}
