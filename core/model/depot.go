package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Position locates a train inside the depot: a track or bay id plus the
// in-track slot index, where slot 1 is nearest the exit.
type Position struct {
	Track string `json:"track"`
	Slot  int    `json:"slot"`
}

// ParsePosition parses a "TRACK-SLOT" id such as "PT3-2". A bare track id
// defaults to slot 1.
func ParsePosition(s string) (Position, error) {
	if s == "" {
		return Position{}, fmt.Errorf("empty position")
	}
	idx := strings.LastIndex(s, "-")
	if idx < 0 {
		return Position{Track: s, Slot: 1}, nil
	}
	slot, err := strconv.Atoi(s[idx+1:])
	if err != nil || slot < 1 {
		// Trailing token is part of the track name, not a slot index.
		return Position{Track: s, Slot: 1}, nil
	}
	return Position{Track: s[:idx], Slot: slot}, nil
}

func (p Position) String() string {
	if p.Slot <= 1 {
		return p.Track
	}
	return fmt.Sprintf("%s-%d", p.Track, p.Slot)
}

// MarshalJSON encodes the position in its compact "TRACK-SLOT" form.
func (p Position) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts the compact string form.
func (p *Position) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParsePosition(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// StablingTrack is a shared parking track holding up to Capacity trains.
type StablingTrack struct {
	ID       string `json:"id"`
	Capacity int    `json:"capacity"`
}

// DepotLayout is the static physical topology of one depot. It is loaded
// once per planning run and never mutated by the optimizers.
type DepotLayout struct {
	StablingTracks  []StablingTrack     `json:"parking_tracks"`
	MaintenanceBays []string            `json:"maintenance_bays"`
	Connections     map[string][]string `json:"connections"`
	ExitPoints      []string            `json:"exit_points"`
}

// Validate checks that the layout references are self-consistent.
func (l DepotLayout) Validate() error {
	if len(l.StablingTracks) == 0 {
		return fmt.Errorf("depot layout has no stabling tracks")
	}
	if len(l.ExitPoints) == 0 {
		return fmt.Errorf("depot layout has no exit points")
	}
	if len(l.Connections) == 0 {
		return fmt.Errorf("depot layout has no connections")
	}
	for _, t := range l.StablingTracks {
		if t.ID == "" {
			return fmt.Errorf("stabling track with empty id")
		}
		if t.Capacity <= 0 {
			return fmt.Errorf("stabling track %s: non-positive capacity", t.ID)
		}
	}
	return nil
}

// CleaningSlot is a deep-cleaning berth with its availability window.
type CleaningSlot struct {
	ID            string `json:"id"`
	Available     bool   `json:"available"`
	AvailableFrom string `json:"available_from"`
}
