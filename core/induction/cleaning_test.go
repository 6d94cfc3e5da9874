package induction

import (
	"context"
	"testing"
	"time"

	"github.com/kochimetro/induction/core/model"
)

func TestAssignCleaningBerthsOverdueTrains(t *testing.T) {
	input := testInput(2, 1)
	// T2 and T3 are overdue, T1 was cleaned recently.
	for i := range input.Trains {
		switch input.Trains[i].ID {
		case "T2", "T3":
			input.Trains[i].LastDeepClean = model.NewDate(2026, time.February, 25)
		}
	}

	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CleaningAssignments) != 2 {
		t.Fatalf("expected 2 cleaning assignments, got %d", len(result.CleaningAssignments))
	}

	// Highest readiness first, and with a single crew the second job starts
	// when the first one ends.
	first, second := result.CleaningAssignments[0], result.CleaningAssignments[1]
	if first.TrainID != "T2" || second.TrainID != "T3" {
		t.Fatalf("expected T2 then T3, got %s then %s", first.TrainID, second.TrainID)
	}
	if first.StartTime != "20:00:00" || first.EndTime != "22:00:00" {
		t.Fatalf("unexpected first window %s-%s", first.StartTime, first.EndTime)
	}
	if second.StartTime != "22:00:00" {
		t.Fatalf("expected the second job to wait for the crew, got start %s", second.StartTime)
	}
	if first.Crew != 1 || second.Crew != 1 {
		t.Fatalf("single crew must handle both jobs, got %d and %d", first.Crew, second.Crew)
	}
}

func TestAssignCleaningSkipsMaintenanceTrains(t *testing.T) {
	input := testInput(2, 1)
	for i := range input.Trains {
		if input.Trains[i].ID == "T5" {
			input.Trains[i].LastDeepClean = model.NewDate(2026, time.February, 20)
		}
	}

	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, a := range result.CleaningAssignments {
		if a.TrainID == "T5" {
			t.Fatal("maintenance train must not occupy a cleaning berth")
		}
	}
}

func TestAssignCleaningRespectsCapacity(t *testing.T) {
	input := testInput(2, 1)
	for i := range input.Trains {
		if input.Trains[i].ID != "T5" {
			input.Trains[i].LastDeepClean = model.NewDate(2026, time.February, 25)
		}
	}
	// One slot, one crew: capacity is one train per night.
	input.CleaningSlots = []model.CleaningSlot{{ID: "CS1", Available: true}}
	input.CleaningCrews = 1

	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CleaningAssignments) != 1 {
		t.Fatalf("expected capacity of 1, got %d assignments", len(result.CleaningAssignments))
	}
	if result.CleaningAssignments[0].TrainID != "T1" {
		t.Fatalf("the single berth must go to the highest readiness train, got %s",
			result.CleaningAssignments[0].TrainID)
	}
}

func TestAssignCleaningIgnoresUnavailableSlots(t *testing.T) {
	input := testInput(2, 1)
	for i := range input.Trains {
		input.Trains[i].LastDeepClean = model.NewDate(2026, time.February, 25)
	}
	input.CleaningSlots = []model.CleaningSlot{{ID: "CS1", Available: false}}

	p := NewPlanner(Config{}, nil)
	result, err := p.Plan(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CleaningAssignments) != 0 {
		t.Fatalf("no berth is available, got %d assignments", len(result.CleaningAssignments))
	}
}
