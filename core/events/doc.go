// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - PlanEvent: completed fleet induction plan
//   - ScheduleEvent: completed departure slot schedule
package events
