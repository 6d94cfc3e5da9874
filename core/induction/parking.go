package induction

import (
	"github.com/kochimetro/induction/core/depot"
	"github.com/kochimetro/induction/core/model"
	"github.com/kochimetro/induction/core/readiness"
)

// assignParking places the fleet for the night. Maintenance trains take the
// maintenance bays in order; everyone else is distributed round-robin across
// the stabling tracks nearest the exits, highest readiness first, capacity
// permitting. Every placement is priced as a shortest path from the train's
// current bay.
func assignParking(input model.PlanningInput, graph *depot.Graph, scores map[string]readiness.Score, roles map[string]model.Role) ([]ParkingAssignment, int) {
	positions := make(map[string]model.Position, len(input.Trains))
	var maintenance, runnable []model.Train
	for _, t := range input.Trains {
		positions[t.ID] = t.Position
		if roles[t.ID] == model.RoleMaintenance {
			maintenance = append(maintenance, t)
		} else {
			runnable = append(runnable, t)
		}
	}

	var assignments []ParkingAssignment
	totalMoves := 0
	place := func(trainID, track string, position int) {
		moves, path := relocationCost(graph, positions[trainID].Track, track)
		totalMoves += moves
		assignments = append(assignments, ParkingAssignment{
			TrainID:       trainID,
			Track:         track,
			Position:      position,
			MovesRequired: moves,
			Path:          path,
		})
	}

	// Maintenance bays hold a single train each; overflow stays unparked
	// and is handled by the workshop shift.
	for i, t := range maintenance {
		if i >= len(input.Depot.MaintenanceBays) {
			break
		}
		place(t.ID, input.Depot.MaintenanceBays[i], 1)
	}

	tracks := graph.TracksByExitDistance(input.Depot.StablingTracks, input.Depot.ExitPoints)
	if len(tracks) == 0 {
		return assignments, totalMoves
	}
	occupancy := make(map[string]int, len(tracks))
	next := 0
	for _, t := range byReadinessDesc(runnable, scores) {
		placed := false
		for probe := 0; probe < len(tracks); probe++ {
			track := tracks[(next+probe)%len(tracks)]
			if occupancy[track.ID] >= track.Capacity {
				continue
			}
			occupancy[track.ID]++
			place(t.ID, track.ID, occupancy[track.ID])
			next = (next + probe + 1) % len(tracks)
			placed = true
			break
		}
		if !placed {
			break // depot is full
		}
	}
	return assignments, totalMoves
}

// relocationCost prices a move between two bays. Unknown or unreachable
// locations cost nothing: the train is already out of scope for shunting.
func relocationCost(graph *depot.Graph, from, to string) (int, []string) {
	if from == "" || from == to {
		return 0, nil
	}
	moves, path, ok := graph.ShortestPath(from, to)
	if !ok {
		return 0, nil
	}
	return moves, path
}
