package model

import (
	"encoding/json"
	"testing"
	"time"
)

func validTrain() Train {
	certs := make(map[Department]FitnessCertificate, len(Departments))
	for _, dept := range Departments {
		certs[dept] = FitnessCertificate{
			Department: dept,
			IssueDate:  NewDate(2026, time.January, 1),
			ExpiryDate: NewDate(2026, time.December, 31),
			Status:     CertValid,
		}
	}
	return Train{
		ID:                    "KM-01",
		FitnessCertificates:   certs,
		Mileage:               MileageSet{Bogie: 10000, BrakePad: 5000, HVAC: 8000},
		MaintenanceThresholds: MileageSet{Bogie: 50000, BrakePad: 30000, HVAC: 40000},
		LastDeepClean:         NewDate(2026, time.March, 1),
	}
}

func TestTrainValidate(t *testing.T) {
	if err := validTrain().Validate(); err != nil {
		t.Fatalf("valid train rejected: %v", err)
	}

	noID := validTrain()
	noID.ID = ""
	if err := noID.Validate(); err == nil {
		t.Fatal("expected an error for a missing id")
	}

	missingCert := validTrain()
	delete(missingCert.FitnessCertificates, DeptSignalling)
	if err := missingCert.Validate(); err == nil {
		t.Fatal("expected an error for a missing certificate")
	}

	badThreshold := validTrain()
	badThreshold.MaintenanceThresholds.HVAC = 0
	if err := badThreshold.Validate(); err == nil {
		t.Fatal("expected an error for a zero threshold")
	}
}

func TestTrainOverdueComponents(t *testing.T) {
	tr := validTrain()
	if got := tr.OverdueComponents(); len(got) != 0 {
		t.Fatalf("healthy train reports overdue components: %v", got)
	}
	tr.Mileage.BrakePad = 30000
	got := tr.OverdueComponents()
	if len(got) != 1 || got[0] != ComponentBrakePad {
		t.Fatalf("expected [brake_pad], got %v", got)
	}
}

func TestBrandingContractRemainingHours(t *testing.T) {
	c := BrandingContract{TotalHours: 100, CompletedHours: 30}
	if got := c.RemainingHours(); got != 70 {
		t.Fatalf("expected 70, got %.1f", got)
	}
	c.CompletedHours = 120
	if got := c.RemainingHours(); got != 0 {
		t.Fatalf("overdelivery must clamp to 0, got %.1f", got)
	}
}

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != `"2026-03-10"` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip changed the date: %s vs %s", back, d)
	}
	if _, err := ParseDate("10/03/2026"); err == nil {
		t.Fatal("expected an error for a non-ISO date")
	}
}

func TestDateArithmetic(t *testing.T) {
	ref := NewDate(2026, time.March, 10).Time
	deadline := NewDate(2026, time.March, 20)
	if got := deadline.DaysUntil(ref); got != 10 {
		t.Fatalf("expected 10 days until, got %d", got)
	}
	cleaned := NewDate(2026, time.March, 1)
	if got := cleaned.DaysSince(ref); got != 9 {
		t.Fatalf("expected 9 days since, got %d", got)
	}
}

func TestParsePosition(t *testing.T) {
	cases := []struct {
		in    string
		track string
		slot  int
	}{
		{"PT3-2", "PT3", 2},
		{"PT3", "PT3", 1},
		{"MB1", "MB1", 1},
		{"STAB-LINE-4", "STAB-LINE", 4},
	}
	for _, tc := range cases {
		p, err := ParsePosition(tc.in)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", tc.in, err)
		}
		if p.Track != tc.track || p.Slot != tc.slot {
			t.Fatalf("ParsePosition(%q) = %+v, want %s slot %d", tc.in, p, tc.track, tc.slot)
		}
	}
	if _, err := ParsePosition(""); err == nil {
		t.Fatal("expected an error for an empty position")
	}
}
