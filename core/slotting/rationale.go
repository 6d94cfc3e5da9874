package slotting

import "fmt"

// Rationale reasons for scheduled vehicles.
const (
	ReasonHighReadinessPriority = "high_readiness_priority_slot"
	ReasonOptimalPosition       = "optimal_position_no_shunting"
	ReasonGoodReadiness         = "good_readiness_score"
	ReasonBestAvailable         = "best_available_option"
	ReasonLowReadiness          = "low_readiness_score"
	ReasonPoorPosition          = "poor_parking_position"
	ReasonBetterAlternative     = "better_alternative_available"
	ReasonInsufficientScore     = "insufficient_optimization_score"

	goodReadinessThreshold = 85
	lowReadinessThreshold  = 80
	poorPositionThreshold  = 2
)

func (s *Scheduler) selectedRationale(sr *search, v, slot int, needsShunting, priority bool, slotOf map[int]int) Rationale {
	vehicle := sr.vehicles[v]
	r := Rationale{}
	switch {
	case vehicle.Readiness >= s.cfg.HighReadiness && priority:
		r.PrimaryReason = ReasonHighReadinessPriority
		r.Details = fmt.Sprintf("high readiness (%.0f%%) earned priority slot #%d", vehicle.Readiness, slot)
	case vehicle.Position == 1 && !needsShunting:
		r.PrimaryReason = ReasonOptimalPosition
		r.Details = fmt.Sprintf("front position on %s allows a direct departure from slot #%d", vehicle.Track, slot)
		r.SecondaryFactors = append(r.SecondaryFactors, "avoids shunting penalty")
	case vehicle.Readiness >= goodReadinessThreshold:
		r.PrimaryReason = ReasonGoodReadiness
		r.Details = fmt.Sprintf("readiness of %.0f%% secured slot #%d", vehicle.Readiness, slot)
	default:
		r.PrimaryReason = ReasonBestAvailable
		r.Details = fmt.Sprintf("best remaining candidate for slot #%d", slot)
	}
	if vehicle.Position == 1 && r.PrimaryReason != ReasonOptimalPosition {
		r.SecondaryFactors = append(r.SecondaryFactors, "front position bonus")
	}
	if slot <= s.cfg.PrioritySlots && r.PrimaryReason != ReasonHighReadinessPriority {
		r.SecondaryFactors = append(r.SecondaryFactors, "early departure slot")
	}
	if vehicle.BrandingUrgency > 0 {
		r.SecondaryFactors = append(r.SecondaryFactors,
			fmt.Sprintf("branding exposure urgency %d favours early service", vehicle.BrandingUrgency))
	}
	if needsShunting {
		r.SecondaryFactors = append(r.SecondaryFactors, "scheduled despite a required shunting move")
	}
	if peer, ok := s.outscoredPeer(sr, v, slotOf); ok {
		r.SecondaryFactors = append(r.SecondaryFactors,
			fmt.Sprintf("preferred over %s parked behind on %s", peer, vehicle.Track))
	}
	return r
}

func (s *Scheduler) standbyRationale(sr *search, v int, slotOf map[int]int) Rationale {
	vehicle := sr.vehicles[v]
	r := Rationale{}
	switch {
	case vehicle.Readiness < lowReadinessThreshold:
		r.PrimaryReason = ReasonLowReadiness
		r.Details = fmt.Sprintf("readiness of %.0f%% is below the %d%% service bar", vehicle.Readiness, lowReadinessThreshold)
	case vehicle.Position > poorPositionThreshold:
		r.PrimaryReason = ReasonPoorPosition
		r.Details = fmt.Sprintf("position %d on %s would force costly shunting", vehicle.Position, vehicle.Track)
	case s.betterPlacedPeer(sr, v, slotOf):
		r.PrimaryReason = ReasonBetterAlternative
		r.Details = fmt.Sprintf("a better placed vehicle on %s took the departure", vehicle.Track)
	default:
		r.PrimaryReason = ReasonInsufficientScore
		r.Details = "combined readiness and position score did not win a slot"
	}
	return r
}

// outscoredPeer reports a same-bay unselected vehicle with higher readiness
// parked behind the selected one, which the optimizer passed over.
func (s *Scheduler) outscoredPeer(sr *search, v int, slotOf map[int]int) (string, bool) {
	vehicle := sr.vehicles[v]
	for _, u := range sr.sameBay[v] {
		if _, selected := slotOf[u]; selected {
			continue
		}
		peer := sr.vehicles[u]
		if peer.Position > vehicle.Position && peer.Readiness > vehicle.Readiness {
			return peer.ID, true
		}
	}
	return "", false
}

// betterPlacedPeer reports whether a same-bay vehicle closer to the exit was
// scheduled instead of v.
func (s *Scheduler) betterPlacedPeer(sr *search, v int, slotOf map[int]int) bool {
	vehicle := sr.vehicles[v]
	for _, u := range sr.sameBay[v] {
		if _, selected := slotOf[u]; !selected {
			continue
		}
		if sr.vehicles[u].Position < vehicle.Position {
			return true
		}
	}
	return false
}
