// Package simulator generates synthetic depot rosters for load testing and
// demonstration runs.
package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kochimetro/induction/core/model"
)

// FleetConfig holds parameters for bulk roster generation. Rates are
// probabilities in [0,1] applied per train.
type FleetConfig struct {
	Size            int
	ExpiredCertRate float64
	JobCardRate     float64
	WornRate        float64
	OverdueClean    float64
	BrandingRate    float64
	Seed            int64
}

// DefaultFleetConfig mirrors a typical 25-train depot with a handful of
// degraded units.
func DefaultFleetConfig() FleetConfig {
	return FleetConfig{
		Size:            25,
		ExpiredCertRate: 0.08,
		JobCardRate:     0.3,
		WornRate:        0.1,
		OverdueClean:    0.2,
		BrandingRate:    0.25,
		Seed:            1,
	}
}

// GenerateFleet creates Size trains with IDs KM-001..KM-NNN, distributed over
// the layout's stabling tracks. The same seed always yields the same roster.
func GenerateFleet(cfg FleetConfig, layout model.DepotLayout, date model.Date) []model.Train {
	if cfg.Size <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	trains := make([]model.Train, cfg.Size)

	track, slot := 0, 0
	for i := 0; i < cfg.Size; i++ {
		id := fmt.Sprintf("KM-%03d", i+1)
		t := model.Train{
			ID:                    id,
			FitnessCertificates:   make(map[model.Department]model.FitnessCertificate, len(model.Departments)),
			Mileage:               model.MileageSet{Bogie: 10000 + rng.Float64()*30000, BrakePad: 5000 + rng.Float64()*20000, HVAC: 8000 + rng.Float64()*25000},
			MaintenanceThresholds: model.MileageSet{Bogie: 50000, BrakePad: 30000, HVAC: 40000},
			LastDeepClean:         model.Date{Time: date.AddDate(0, 0, -1-rng.Intn(6))},
			CleaningDurationHours: 2,
		}
		for _, dept := range model.Departments {
			cert := model.FitnessCertificate{
				Department: dept,
				IssueDate:  model.Date{Time: date.AddDate(0, -6, 0)},
				ExpiryDate: model.Date{Time: date.AddDate(0, 0, 30+rng.Intn(300))},
				Status:     model.CertValid,
			}
			t.FitnessCertificates[dept] = cert
		}
		if rng.Float64() < cfg.ExpiredCertRate {
			dept := model.Departments[rng.Intn(len(model.Departments))]
			cert := t.FitnessCertificates[dept]
			cert.ExpiryDate = model.Date{Time: date.AddDate(0, 0, -1-rng.Intn(10))}
			cert.Status = model.CertExpired
			t.FitnessCertificates[dept] = cert
		}
		if rng.Float64() < cfg.JobCardRate {
			crits := []model.Criticality{model.CriticalityLow, model.CriticalityMedium, model.CriticalityHigh}
			t.JobCards = append(t.JobCards, model.JobCard{
				ID:             fmt.Sprintf("JC-%s-1", id),
				Description:    "open work order",
				OpenedAt:       model.Date{Time: date.AddDate(0, 0, -rng.Intn(14))},
				Criticality:    crits[rng.Intn(len(crits))],
				EstimatedHours: 1 + rng.Float64()*8,
			})
		}
		if rng.Float64() < cfg.WornRate {
			t.Mileage.Bogie = 48000 + rng.Float64()*3000
		}
		if rng.Float64() < cfg.OverdueClean {
			t.LastDeepClean = model.Date{Time: date.AddDate(0, 0, -8-rng.Intn(7))}
		}
		if rng.Float64() < cfg.BrandingRate {
			t.BrandingContracts = append(t.BrandingContracts, model.BrandingContract{
				Brand:          fmt.Sprintf("brand-%d", rng.Intn(5)+1),
				TotalHours:     500,
				CompletedHours: rng.Float64() * 480,
				Deadline:       model.Date{Time: date.AddDate(0, 0, 10+rng.Intn(60))},
				Priority:       rng.Intn(3) + 1,
			})
		}

		// stable the fleet across the parking tracks in order
		if track < len(layout.StablingTracks) {
			t.Position = model.Position{Track: layout.StablingTracks[track].ID, Slot: slot + 1}
			slot++
			if slot >= layout.StablingTracks[track].Capacity {
				track, slot = track+1, 0
			}
		} else if len(layout.MaintenanceBays) > 0 {
			t.Position = model.Position{Track: layout.MaintenanceBays[(i)%len(layout.MaintenanceBays)], Slot: 1}
		}
		trains[i] = t
	}
	return trains
}

// DefaultLayout models a mid-size metro depot: twelve stabling tracks of two
// trains each, two maintenance bays and an exit at each end of the yard.
func DefaultLayout() model.DepotLayout {
	tracks := make([]model.StablingTrack, 12)
	for i := range tracks {
		tracks[i] = model.StablingTrack{ID: fmt.Sprintf("PT%d", i+1), Capacity: 2}
	}
	return model.DepotLayout{
		StablingTracks:  tracks,
		MaintenanceBays: []string{"MB1", "MB2"},
		Connections: map[string][]string{
			"PT1":  {"EXIT1", "PT2"},
			"PT2":  {"PT3"},
			"PT3":  {"PT4", "MB1"},
			"PT4":  {"PT5"},
			"PT5":  {"PT6"},
			"PT6":  {"PT7"},
			"PT7":  {"PT8"},
			"PT8":  {"PT9"},
			"PT9":  {"PT10"},
			"PT10": {"PT11", "MB2"},
			"PT11": {"PT12"},
			"PT12": {"EXIT2"},
		},
		ExitPoints: []string{"EXIT1", "EXIT2"},
	}
}

// Input assembles a full planning input for the given service date.
func Input(cfg FleetConfig, date model.Date, required, standby int) model.PlanningInput {
	layout := DefaultLayout()
	return model.PlanningInput{
		Trains: GenerateFleet(cfg, layout, date),
		CleaningSlots: []model.CleaningSlot{
			{ID: "CS1", Available: true},
			{ID: "CS2", Available: true},
			{ID: "CS3", Available: true},
		},
		Depot:          layout,
		ServiceDate:    date,
		RequiredTrains: required,
		StandbyTrains:  standby,
		CleaningCrews:  2,
	}
}

// Today returns the current wall-clock date, for callers that do not care
// about a specific service date.
func Today() model.Date {
	now := time.Now().UTC()
	return model.NewDate(now.Year(), now.Month(), now.Day())
}
