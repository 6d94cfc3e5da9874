package simulator

import (
	"reflect"
	"testing"
	"time"

	"github.com/kochimetro/induction/core/model"
)

func TestGenerateFleetIsDeterministic(t *testing.T) {
	cfg := DefaultFleetConfig()
	date := model.NewDate(2026, time.March, 10)
	a := GenerateFleet(cfg, DefaultLayout(), date)
	b := GenerateFleet(cfg, DefaultLayout(), date)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed must yield the same roster")
	}
}

func TestGenerateFleetProducesValidInput(t *testing.T) {
	input := Input(DefaultFleetConfig(), model.NewDate(2026, time.March, 10), 15, 4)
	if err := input.Validate(); err != nil {
		t.Fatalf("generated input must validate: %v", err)
	}
	if len(input.Trains) != 25 {
		t.Fatalf("expected 25 trains, got %d", len(input.Trains))
	}
	seen := map[string]bool{}
	for _, tr := range input.Trains {
		if seen[tr.ID] {
			t.Fatalf("duplicate train id %s", tr.ID)
		}
		seen[tr.ID] = true
		if err := tr.Validate(); err != nil {
			t.Fatalf("train %s invalid: %v", tr.ID, err)
		}
	}
}

func TestGenerateFleetStablesWithinCapacity(t *testing.T) {
	layout := DefaultLayout()
	fleet := GenerateFleet(DefaultFleetConfig(), layout, model.NewDate(2026, time.March, 10))
	capacity := map[string]int{}
	for _, tr := range layout.StablingTracks {
		capacity[tr.ID] = tr.Capacity
	}
	occupancy := map[string]int{}
	for _, tr := range fleet {
		occupancy[tr.Position.Track]++
	}
	for track, n := range occupancy {
		if limit, ok := capacity[track]; ok && n > limit {
			t.Fatalf("track %s holds %d trains, capacity %d", track, n, limit)
		}
	}
}

func TestDefaultLayoutValidates(t *testing.T) {
	if err := DefaultLayout().Validate(); err != nil {
		t.Fatalf("default layout invalid: %v", err)
	}
}

func TestDegradedRatesApply(t *testing.T) {
	cfg := DefaultFleetConfig()
	cfg.Size = 200
	cfg.ExpiredCertRate = 0.5
	fleet := GenerateFleet(cfg, DefaultLayout(), model.NewDate(2026, time.March, 10))
	expired := 0
	for _, tr := range fleet {
		if tr.HasExpiredCertificate() {
			expired++
		}
	}
	if expired < 50 || expired > 150 {
		t.Fatalf("expired-certificate rate implausible: %d of 200", expired)
	}
}
