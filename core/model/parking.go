package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ParkingRecord is the canonical bay occupancy fact consumed by the slot
// scheduler: one train, one track, one in-track position (1 = nearest exit).
type ParkingRecord struct {
	TrainID  string `json:"train_id"`
	Track    string `json:"bay"`
	Position int    `json:"position"`
}

// ParkingFormat tags which wire shape a parking document arrived in.
type ParkingFormat string

const (
	// FormatAssignments is the native Layer-1 output shape.
	FormatAssignments ParkingFormat = "assignments"
	// FormatPositions is the legacy current-position list.
	FormatPositions ParkingFormat = "current_positions"
	// FormatBayMap is the oldest shape: a train-to-bay map without slots.
	FormatBayMap ParkingFormat = "bay_map"
)

// ParkingDocument resolves the three historical parking payload shapes into
// canonical records at ingestion time. Downstream code never sees the
// format distinction.
type ParkingDocument struct {
	Format  ParkingFormat
	Records []ParkingRecord
}

type parkingAssignment struct {
	TrainID  string `json:"train_id"`
	Track    string `json:"bay"`
	Position int    `json:"position"`
}

type parkingPosition struct {
	TrainID  string `json:"train_id"`
	Track    string `json:"bay_id"`
	Position int    `json:"position"`
}

// UnmarshalJSON sniffs the payload shape exactly once and normalizes it.
func (d *ParkingDocument) UnmarshalJSON(b []byte) error {
	var probe struct {
		Assignments      []parkingAssignment `json:"assignments"`
		CurrentPositions []parkingPosition   `json:"current_positions"`
	}
	if err := json.Unmarshal(b, &probe); err == nil {
		switch {
		case probe.Assignments != nil:
			d.Format = FormatAssignments
			d.Records = make([]ParkingRecord, 0, len(probe.Assignments))
			for _, a := range probe.Assignments {
				d.Records = append(d.Records, ParkingRecord{
					TrainID:  a.TrainID,
					Track:    a.Track,
					Position: defaultPosition(a.Position),
				})
			}
			return d.validate()
		case probe.CurrentPositions != nil:
			d.Format = FormatPositions
			d.Records = make([]ParkingRecord, 0, len(probe.CurrentPositions))
			for _, p := range probe.CurrentPositions {
				d.Records = append(d.Records, ParkingRecord{
					TrainID:  p.TrainID,
					Track:    p.Track,
					Position: defaultPosition(p.Position),
				})
			}
			return d.validate()
		}
	}

	var bayMap map[string]string
	if err := json.Unmarshal(b, &bayMap); err != nil {
		return fmt.Errorf("unrecognized parking payload: %w", err)
	}
	d.Format = FormatBayMap
	d.Records = make([]ParkingRecord, 0, len(bayMap))
	for trainID, track := range bayMap {
		d.Records = append(d.Records, ParkingRecord{TrainID: trainID, Track: track, Position: 1})
	}
	// Map iteration order is random; keep ingestion deterministic.
	sort.Slice(d.Records, func(i, j int) bool { return d.Records[i].TrainID < d.Records[j].TrainID })
	return d.validate()
}

func (d ParkingDocument) validate() error {
	seen := make(map[string]bool, len(d.Records))
	for _, r := range d.Records {
		if r.TrainID == "" {
			return fmt.Errorf("parking record with empty train id")
		}
		if r.Track == "" {
			return fmt.Errorf("parking record for %s has no track", r.TrainID)
		}
		if seen[r.TrainID] {
			return fmt.Errorf("duplicate parking record for %s", r.TrainID)
		}
		seen[r.TrainID] = true
	}
	return nil
}

func defaultPosition(p int) int {
	if p < 1 {
		return 1
	}
	return p
}
