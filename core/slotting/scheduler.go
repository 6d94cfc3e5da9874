package slotting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kochimetro/induction/core/logger"
	"github.com/kochimetro/induction/core/model"
)

// Scheduler runs the Layer-2 slot assignment. A Scheduler is stateless
// across runs: every Schedule call builds a fresh search.
type Scheduler struct {
	cfg Config
	log logger.Logger
}

// NewScheduler creates a Scheduler. A nil logger disables logging.
func NewScheduler(cfg Config, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop{}
	}
	def := DefaultConfig()
	if cfg.Slots <= 0 {
		cfg.Slots = def.Slots
	}
	if cfg.PrioritySlots <= 0 {
		cfg.PrioritySlots = def.PrioritySlots
	}
	if cfg.HighReadiness <= 0 {
		cfg.HighReadiness = def.HighReadiness
	}
	if cfg.TimeBudget <= 0 {
		cfg.TimeBudget = def.TimeBudget
	}
	if cfg.Weights == (Weights{}) {
		cfg.Weights = def.Weights
	}
	return &Scheduler{cfg: cfg, log: log}
}

// Schedule fills exactly K departure slots from the candidate fleet. The
// result always carries an explicit status; when fewer than K candidates are
// available, or the time budget expires with no complete assignment, a typed
// infeasible result is returned. There is no heuristic fallback here.
func (s *Scheduler) Schedule(ctx context.Context, vehicles []Vehicle, day ServiceDay, date model.Date) (*Result, error) {
	if err := validateVehicles(vehicles); err != nil {
		return nil, fmt.Errorf("invalid slotting input: %w", err)
	}
	started := time.Now()
	result := &Result{
		Timetable:   TimetableFor(day),
		ServiceDate: date,
		Slots:       slotNumbers(s.cfg.Slots),
	}

	if len(vehicles) < s.cfg.Slots {
		result.Status = model.StatusInfeasible
		result.Note = fmt.Sprintf("%d candidates cannot fill %d departure slots", len(vehicles), s.cfg.Slots)
		result.WallTimeSeconds = time.Since(started).Seconds()
		s.log.Warnf("slotting infeasible: %s", result.Note)
		return result, nil
	}

	search := newSearch(ctx, s.cfg, vehicles)
	search.run()

	switch {
	case !search.haveBest:
		result.Status = model.StatusInfeasible
		result.Note = "no complete slot assignment found within the time budget"
	case search.aborted:
		result.Status = model.StatusFeasible
	default:
		result.Status = model.StatusOptimal
	}
	if search.haveBest {
		s.extract(search, result)
	}
	result.WallTimeSeconds = time.Since(started).Seconds()
	s.log.Infof("slotting %s: objective=%d, %d scheduled, %d standby, %d shunting ops",
		result.Status, result.ObjectiveValue, len(result.Assignments), len(result.Standby), len(result.ShuntingOps))
	return result, nil
}

func validateVehicles(vehicles []Vehicle) error {
	if len(vehicles) == 0 {
		return fmt.Errorf("no candidate vehicles")
	}
	seen := make(map[string]bool, len(vehicles))
	for _, v := range vehicles {
		if v.ID == "" {
			return fmt.Errorf("vehicle with empty id")
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate vehicle %s", v.ID)
		}
		seen[v.ID] = true
		if v.Track == "" {
			return fmt.Errorf("vehicle %s has no bay", v.ID)
		}
		if v.Position < 1 {
			return fmt.Errorf("vehicle %s has invalid bay position %d", v.ID, v.Position)
		}
	}
	return nil
}

func slotNumbers(k int) []int {
	slots := make([]int, k)
	for i := range slots {
		slots[i] = i + 1
	}
	return slots
}

// search is one branch-and-bound run over slot assignments. Slots are filled
// in order; the bound is the partial value plus, per open slot, the best
// shunting-free gain any unassigned vehicle could earn there.
type search struct {
	ctx      context.Context
	cfg      Config
	vehicles []Vehicle

	base     []int   // per-vehicle selection bonus
	slotGain [][]int // per-vehicle, per-slot bonus
	sameBay  [][]int // per-vehicle indices sharing its track

	perSlot  []int // slot index -> vehicle index, -1 when open
	assigned []bool

	deadline  time.Time
	nodes     int
	aborted   bool
	haveBest  bool
	bestValue int
	best      []int
}

func newSearch(ctx context.Context, cfg Config, vehicles []Vehicle) *search {
	k := cfg.Slots
	sr := &search{
		ctx:      ctx,
		cfg:      cfg,
		vehicles: vehicles,
		base:     make([]int, len(vehicles)),
		slotGain: make([][]int, len(vehicles)),
		sameBay:  make([][]int, len(vehicles)),
		perSlot:  make([]int, k),
		assigned: make([]bool, len(vehicles)),
		deadline: time.Now().Add(cfg.TimeBudget),
	}
	byTrack := make(map[string][]int)
	for i, v := range vehicles {
		byTrack[v.Track] = append(byTrack[v.Track], i)
		score := int(v.Readiness)
		sr.base[i] = score*cfg.Weights.Readiness/100 + cfg.Weights.PositionBonus/v.Position
		gains := make([]int, k)
		for slot := 1; slot <= k; slot++ {
			g := (k + 1 - slot) * score * 10
			if v.Readiness >= cfg.HighReadiness && slot <= cfg.PrioritySlots {
				g += cfg.Weights.PriorityBonus
			}
			g += v.BrandingUrgency * (k + 1 - slot) * cfg.Weights.BrandingSlot
			gains[slot-1] = g
		}
		sr.slotGain[i] = gains
	}
	for i, v := range vehicles {
		for _, j := range byTrack[v.Track] {
			if j != i {
				sr.sameBay[i] = append(sr.sameBay[i], j)
			}
		}
	}
	for i := range sr.perSlot {
		sr.perSlot[i] = -1
	}
	return sr
}

func (sr *search) run() { sr.dfs(0, 0) }

// dfs fills slot index s. The partial value carries all bonuses and the
// shunting penalties already implied by earlier slots; penalties caused by
// unselected blockers are only known at the leaf and are settled there.
func (sr *search) dfs(s, partial int) {
	sr.nodes++
	if sr.nodes&1023 == 0 && sr.expired() {
		sr.aborted = true
		return
	}
	if s == sr.cfg.Slots {
		value := sr.evaluate(sr.perSlot)
		if !sr.haveBest || value > sr.bestValue {
			sr.haveBest = true
			sr.bestValue = value
			sr.best = append(sr.best[:0], sr.perSlot...)
		}
		return
	}
	if sr.haveBest && partial+sr.optimisticRemainder(s) <= sr.bestValue {
		return
	}

	type candidate struct {
		idx   int
		delta int
	}
	cands := make([]candidate, 0, len(sr.vehicles))
	for i := range sr.vehicles {
		if sr.assigned[i] {
			continue
		}
		delta := sr.base[i] + sr.slotGain[i][s]
		if sr.blockedByEarlier(i, s) {
			delta -= sr.cfg.Weights.ShuntingPenalty
		}
		cands = append(cands, candidate{idx: i, delta: delta})
	}
	sort.SliceStable(cands, func(a, b int) bool {
		if cands[a].delta != cands[b].delta {
			return cands[a].delta > cands[b].delta
		}
		return cands[a].idx < cands[b].idx
	})

	for _, c := range cands {
		sr.perSlot[s] = c.idx
		sr.assigned[c.idx] = true
		sr.dfs(s+1, partial+c.delta)
		sr.assigned[c.idx] = false
		sr.perSlot[s] = -1
		if sr.aborted {
			return
		}
	}
}

func (sr *search) expired() bool {
	select {
	case <-sr.ctx.Done():
		return true
	default:
	}
	return time.Now().After(sr.deadline)
}

// blockedByEarlier reports whether placing vehicle v at slot s makes it a
// front blocker: some same-bay vehicle parked behind it already departs in
// an earlier slot, so v must be shunted aside first.
func (sr *search) blockedByEarlier(v, s int) bool {
	pos := sr.vehicles[v].Position
	for _, u := range sr.sameBay[v] {
		if !sr.assigned[u] || sr.vehicles[u].Position <= pos {
			continue
		}
		for earlier := 0; earlier < s; earlier++ {
			if sr.perSlot[earlier] == u {
				return true
			}
		}
	}
	return false
}

// optimisticRemainder bounds what the open slots can still add, ignoring
// future shunting penalties. Penalties only subtract, so the bound stays
// admissible.
func (sr *search) optimisticRemainder(s int) int {
	total := 0
	for slot := s; slot < sr.cfg.Slots; slot++ {
		best := 0
		for i := range sr.vehicles {
			if sr.assigned[i] {
				continue
			}
			if g := sr.base[i] + sr.slotGain[i][slot]; g > best {
				best = g
			}
		}
		total += best
	}
	return total
}

// evaluate computes the exact objective of a complete assignment, including
// the penalties for departing past unselected blockers.
func (sr *search) evaluate(perSlot []int) int {
	flags := sr.shuntingFlags(perSlot)
	value := 0
	for s, v := range perSlot {
		value += sr.base[v] + sr.slotGain[v][s]
		if flags[v] {
			value -= sr.cfg.Weights.ShuntingPenalty
		}
	}
	return value
}

// shuntingFlags derives the per-vehicle shunting requirement from a complete
// assignment. Only same-bay pairs are examined and equal positions are
// skipped, so the work is bounded by bay occupancy, not fleet size. A
// selected vehicle is flagged when it must be relocated for a later
// departure parked behind it, or when its own exit is blocked by a vehicle
// that never departs. Unselected vehicles are never flagged.
func (sr *search) shuntingFlags(perSlot []int) map[int]bool {
	slotOf := make(map[int]int, len(perSlot))
	for s, v := range perSlot {
		slotOf[v] = s + 1
	}
	flags := make(map[int]bool, len(perSlot))
	for v, slotV := range slotOf {
		posV := sr.vehicles[v].Position
		for _, u := range sr.sameBay[v] {
			posU := sr.vehicles[u].Position
			if posU == posV {
				continue
			}
			slotU, selected := slotOf[u]
			switch {
			case posU > posV && selected && slotU < slotV:
				// u departs first from behind v: v is moved aside.
				flags[v] = true
			case posU < posV && !selected:
				// v departs past u, which stays parked all day.
				flags[v] = true
			}
		}
	}
	return flags
}

// extract converts the incumbent into the public result shape.
func (s *Scheduler) extract(sr *search, result *Result) {
	result.ObjectiveValue = sr.bestValue
	flags := sr.shuntingFlags(sr.best)
	slotOf := make(map[int]int, len(sr.best))
	for slot, v := range sr.best {
		slotOf[v] = slot + 1
	}

	for slot, v := range sr.best {
		vehicle := sr.vehicles[v]
		needsShunting := flags[v]
		priority := slot+1 <= s.cfg.PrioritySlots
		result.Assignments = append(result.Assignments, Assignment{
			TrainID:       vehicle.ID,
			Track:         vehicle.Track,
			Position:      vehicle.Position,
			Readiness:     vehicle.Readiness,
			Slot:          slot + 1,
			NeedsShunting: needsShunting,
			PrioritySlot:  priority,
			Rationale:     s.selectedRationale(sr, v, slot+1, needsShunting, priority, slotOf),
		})
		if needsShunting {
			result.ShuntingOps = append(result.ShuntingOps, ShuntingOp{
				TrainID:  vehicle.ID,
				Track:    vehicle.Track,
				Position: vehicle.Position,
				Reason:   "must be relocated to clear the exit path",
			})
		}
	}
	sort.Slice(result.Assignments, func(i, j int) bool {
		return result.Assignments[i].Slot < result.Assignments[j].Slot
	})

	for v := range sr.vehicles {
		if _, selected := slotOf[v]; selected {
			continue
		}
		vehicle := sr.vehicles[v]
		result.Standby = append(result.Standby, StandbyVehicle{
			TrainID:   vehicle.ID,
			Track:     vehicle.Track,
			Position:  vehicle.Position,
			Readiness: vehicle.Readiness,
			Rationale: s.standbyRationale(sr, v, slotOf),
		})
	}
}
