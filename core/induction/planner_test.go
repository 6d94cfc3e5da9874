package induction

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kochimetro/induction/core/model"
)

func testDate() model.Date { return model.NewDate(2026, time.March, 10) }

func testDepot() model.DepotLayout {
	return model.DepotLayout{
		StablingTracks: []model.StablingTrack{
			{ID: "PT1", Capacity: 2},
			{ID: "PT2", Capacity: 2},
		},
		MaintenanceBays: []string{"MB1"},
		Connections: map[string][]string{
			"PT1": {"EXIT1", "PT2", "MB1"},
			"PT2": {"PT1"},
		},
		ExitPoints: []string{"EXIT1"},
	}
}

func fitTrain(id, track string, slot int) model.Train {
	certs := make(map[model.Department]model.FitnessCertificate, len(model.Departments))
	for _, dept := range model.Departments {
		certs[dept] = model.FitnessCertificate{
			Department: dept,
			IssueDate:  model.NewDate(2026, time.January, 1),
			ExpiryDate: model.NewDate(2026, time.December, 31),
			Status:     model.CertValid,
		}
	}
	return model.Train{
		ID:                    id,
		FitnessCertificates:   certs,
		Mileage:               model.MileageSet{Bogie: 10000, BrakePad: 5000, HVAC: 8000},
		MaintenanceThresholds: model.MileageSet{Bogie: 50000, BrakePad: 30000, HVAC: 40000},
		LastDeepClean:         model.NewDate(2026, time.March, 8),
		CleaningDurationHours: 2,
		Position:              model.Position{Track: track, Slot: slot},
	}
}

func withJobCard(t model.Train, crit model.Criticality) model.Train {
	t.JobCards = append(t.JobCards, model.JobCard{
		ID:          fmt.Sprintf("JC-%s-%d", t.ID, len(t.JobCards)+1),
		Description: "routine work order",
		Criticality: crit,
	})
	return t
}

func withExpiredCert(t model.Train) model.Train {
	cert := t.FitnessCertificates[model.DeptTelecom]
	cert.Status = model.CertExpired
	t.FitnessCertificates[model.DeptTelecom] = cert
	return t
}

// gradedFleet scores, in order: T1 100, T2 97, T3 92.5, T4 85, T5 forced to
// maintenance by an expired certificate.
func gradedFleet() []model.Train {
	return []model.Train{
		fitTrain("T1", "PT1", 1),
		withJobCard(fitTrain("T2", "PT1", 2), model.CriticalityLow),
		withJobCard(fitTrain("T3", "PT2", 1), model.CriticalityMedium),
		withJobCard(fitTrain("T4", "PT2", 2), model.CriticalityHigh),
		withExpiredCert(fitTrain("T5", "MB1", 1)),
	}
}

func testInput(required, standby int) model.PlanningInput {
	return model.PlanningInput{
		Trains:         gradedFleet(),
		CleaningSlots:  []model.CleaningSlot{{ID: "CS1", Available: true}},
		Depot:          testDepot(),
		ServiceDate:    testDate(),
		RequiredTrains: required,
		StandbyTrains:  standby,
		CleaningCrews:  1,
	}
}

func TestPlanPartitionsFleetByReadiness(t *testing.T) {
	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), testInput(2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata.Status != model.StatusOptimal {
		t.Fatalf("expected optimal status, got %s", result.Metadata.Status)
	}
	if want := []string{"T1", "T2"}; !reflect.DeepEqual(result.ServiceTrains, want) {
		t.Fatalf("expected service %v, got %v", want, result.ServiceTrains)
	}
	if want := []string{"T3"}; !reflect.DeepEqual(result.StandbyTrains, want) {
		t.Fatalf("expected standby %v, got %v", want, result.StandbyTrains)
	}
	if want := []string{"T4", "T5"}; !reflect.DeepEqual(result.MaintenanceTrains, want) {
		t.Fatalf("expected maintenance %v, got %v", want, result.MaintenanceTrains)
	}
	if result.Metadata.ObjectiveValue <= 0 {
		t.Fatalf("expected a positive objective, got %.2f", result.Metadata.ObjectiveValue)
	}
}

func TestPlanForcesHardViolationsIntoMaintenance(t *testing.T) {
	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), testInput(4, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range result.ServiceTrains {
		if id == "T5" {
			t.Fatal("train with expired certificate must not enter service")
		}
	}
	reasons := result.Explanation.MaintenanceReasons["T5"]
	if len(reasons) == 0 {
		t.Fatal("expected maintenance reasons for T5")
	}
	if want := "expired telecom fitness certificate"; reasons[0] != want {
		t.Fatalf("expected reason %q, got %q", want, reasons[0])
	}
}

func TestPlanReducesHeadcountsWhenFleetShort(t *testing.T) {
	p := NewPlanner(Config{}, nil)
	// Only four trains are eligible; asking for 3+2 must shrink standby.
	result, err := p.Plan(context.Background(), testInput(3, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata.RequiredTrains != 3 || result.Metadata.StandbyTrains != 1 {
		t.Fatalf("expected headcounts 3/1, got %d/%d",
			result.Metadata.RequiredTrains, result.Metadata.StandbyTrains)
	}
	if len(result.ServiceTrains) != 3 || len(result.StandbyTrains) != 1 {
		t.Fatalf("partition does not match reduced headcounts: %d service, %d standby",
			len(result.ServiceTrains), len(result.StandbyTrains))
	}
}

func TestPlanFallsBackWhenSolverFails(t *testing.T) {
	original := lpSolve
	lpSolve = func([]float64, int, int) (roleSelection, error) {
		return roleSelection{}, fmt.Errorf("simulated solver failure")
	}
	defer func() { lpSolve = original }()

	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), testInput(2, 1))
	if err != nil {
		t.Fatalf("fallback must not surface an error: %v", err)
	}
	if result.Metadata.Status != model.StatusFallback {
		t.Fatalf("expected fallback status, got %s", result.Metadata.Status)
	}
	// The heuristic fills quotas by descending readiness, matching the
	// solver's optimum here.
	if want := []string{"T1", "T2"}; !reflect.DeepEqual(result.ServiceTrains, want) {
		t.Fatalf("expected service %v, got %v", want, result.ServiceTrains)
	}
	if result.Metadata.ObjectiveValue <= 0 {
		t.Fatalf("fallback must still report the objective, got %.2f", result.Metadata.ObjectiveValue)
	}
}

func TestPlanIsIdempotent(t *testing.T) {
	p := NewPlanner(Config{}, nil)
	first, err := p.Plan(context.Background(), testInput(2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Plan(context.Background(), testInput(2, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Metadata.WallTimeSeconds = 0
	second.Metadata.WallTimeSeconds = 0
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs must produce identical plans")
	}
}

func TestPlanRejectsInvalidInput(t *testing.T) {
	p := NewPlanner(Config{}, nil)
	cases := []struct {
		name   string
		mutate func(*model.PlanningInput)
	}{
		{"empty roster", func(in *model.PlanningInput) { in.Trains = nil }},
		{"duplicate train", func(in *model.PlanningInput) { in.Trains = append(in.Trains, in.Trains[0]) }},
		{"zero required", func(in *model.PlanningInput) { in.RequiredTrains = 0 }},
		{"no crews", func(in *model.PlanningInput) { in.CleaningCrews = 0 }},
		{"no exits", func(in *model.PlanningInput) { in.Depot.ExitPoints = nil }},
		{"missing date", func(in *model.PlanningInput) { in.ServiceDate = model.Date{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := testInput(2, 1)
			tc.mutate(&input)
			if _, err := p.Plan(context.Background(), input); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestAdjustHeadcounts(t *testing.T) {
	cases := []struct {
		eligible, required, standby int
		wantRequired, wantStandby   int
	}{
		{10, 6, 2, 6, 2},
		{7, 6, 2, 6, 1},
		{6, 6, 2, 6, 0},
		{4, 6, 2, 4, 0},
		{0, 6, 2, 0, 0},
	}
	for _, tc := range cases {
		gotRequired, gotStandby := adjustHeadcounts(tc.eligible, tc.required, tc.standby)
		if gotRequired != tc.wantRequired || gotStandby != tc.wantStandby {
			t.Fatalf("adjustHeadcounts(%d, %d, %d) = %d/%d, want %d/%d",
				tc.eligible, tc.required, tc.standby, gotRequired, gotStandby, tc.wantRequired, tc.wantStandby)
		}
	}
}
