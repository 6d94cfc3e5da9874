package events

import (
	"github.com/kochimetro/induction/core/induction"
	"github.com/kochimetro/induction/core/slotting"
)

// PlanEvent is published when a fleet induction plan completes.
type PlanEvent struct {
	RunID  string
	Result *induction.Result
}

// ScheduleEvent is published when a departure slot schedule completes.
type ScheduleEvent struct {
	RunID  string
	Result *slotting.Result
}
