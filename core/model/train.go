package model

import (
	"fmt"
	"strings"
	"time"
)

// Department identifies a fitness-certificate issuing department.
type Department string

const (
	DeptRollingStock Department = "rolling_stock"
	DeptSignalling   Department = "signalling"
	DeptTelecom      Department = "telecom"
)

// Departments lists every monitored department. A valid train carries exactly
// one certificate per entry.
var Departments = []Department{DeptRollingStock, DeptSignalling, DeptTelecom}

// CertificateStatus is the validity state of a fitness certificate.
type CertificateStatus string

const (
	CertValid   CertificateStatus = "valid"
	CertExpired CertificateStatus = "expired"
)

// Criticality ranks an open job card.
type Criticality string

const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityLow      Criticality = "low"
)

// WearComponent identifies a mileage-tracked wear part.
type WearComponent string

const (
	ComponentBogie    WearComponent = "bogie"
	ComponentBrakePad WearComponent = "brake_pad"
	ComponentHVAC     WearComponent = "hvac"
)

// WearComponents lists the monitored wear parts in evaluation order.
var WearComponents = []WearComponent{ComponentBogie, ComponentBrakePad, ComponentHVAC}

// Date is a calendar day serialized as YYYY-MM-DD. Planning inputs carry
// dates, not instants, so time-of-day is deliberately dropped.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

// DaysUntil returns the whole days from ref to d. Negative when d is past.
func (d Date) DaysUntil(ref time.Time) int {
	return int(d.Sub(ref).Hours() / 24)
}

// DaysSince returns the whole days from d to ref.
func (d Date) DaysSince(ref time.Time) int {
	return int(ref.Sub(d.Time).Hours() / 24)
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// FitnessCertificate is a department clearance for revenue service.
type FitnessCertificate struct {
	Department Department        `json:"department"`
	IssueDate  Date              `json:"issue_date"`
	ExpiryDate Date              `json:"expiry_date"`
	Status     CertificateStatus `json:"status"`
}

// JobCard is an open maintenance work order.
type JobCard struct {
	ID             string      `json:"id"`
	Description    string      `json:"description"`
	OpenedAt       Date        `json:"opened_at"`
	Criticality    Criticality `json:"criticality"`
	EstimatedHours float64     `json:"estimated_hours"`
}

// BrandingContract tracks contracted advertiser exposure hours.
type BrandingContract struct {
	Brand          string  `json:"brand"`
	TotalHours     float64 `json:"total_exposure_hours"`
	CompletedHours float64 `json:"completed_hours"`
	Deadline       Date    `json:"deadline"`
	Priority       int     `json:"priority"`
}

// RemainingHours returns the exposure hours still owed to the advertiser.
func (c BrandingContract) RemainingHours() float64 {
	r := c.TotalHours - c.CompletedHours
	if r < 0 {
		return 0
	}
	return r
}

// MileageSet holds per-component kilometre counters. It is used both for
// current odometer values and for maintenance thresholds.
type MileageSet struct {
	Bogie    float64 `json:"bogie"`
	BrakePad float64 `json:"brake_pad"`
	HVAC     float64 `json:"hvac"`
}

// Component returns the counter for the given wear component.
func (m MileageSet) Component(c WearComponent) float64 {
	switch c {
	case ComponentBogie:
		return m.Bogie
	case ComponentBrakePad:
		return m.BrakePad
	case ComponentHVAC:
		return m.HVAC
	}
	return 0
}

// Train is the static and maintenance master data for one rail vehicle,
// as supplied for a single planning run.
type Train struct {
	ID                    string                            `json:"id"`
	FitnessCertificates   map[Department]FitnessCertificate `json:"fitness_certificates"`
	JobCards              []JobCard                         `json:"job_cards"`
	BrandingContracts     []BrandingContract                `json:"branding_contracts"`
	Mileage               MileageSet                        `json:"current_mileage"`
	MaintenanceThresholds MileageSet                        `json:"maintenance_thresholds"`
	LastDeepClean         Date                              `json:"last_deep_cleaning"`
	CleaningDurationHours float64                           `json:"cleaning_duration"`
	Position              Position                          `json:"current_position"`
}

// HasExpiredCertificate reports whether any department certificate is expired.
func (t Train) HasExpiredCertificate() bool {
	for _, cert := range t.FitnessCertificates {
		if cert.Status == CertExpired {
			return true
		}
	}
	return false
}

// HasCriticalJobCard reports whether any open job card is critical.
func (t Train) HasCriticalJobCard() bool {
	for _, jc := range t.JobCards {
		if jc.Criticality == CriticalityCritical {
			return true
		}
	}
	return false
}

// OverdueComponents returns the wear components at or past their threshold.
func (t Train) OverdueComponents() []WearComponent {
	var overdue []WearComponent
	for _, c := range WearComponents {
		if t.Mileage.Component(c) >= t.MaintenanceThresholds.Component(c) {
			overdue = append(overdue, c)
		}
	}
	return overdue
}

// Validate checks the structural invariants of the train record.
func (t Train) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("train id is required")
	}
	for _, dept := range Departments {
		if _, ok := t.FitnessCertificates[dept]; !ok {
			return fmt.Errorf("train %s: missing %s fitness certificate", t.ID, dept)
		}
	}
	if len(t.FitnessCertificates) != len(Departments) {
		return fmt.Errorf("train %s: expected exactly %d fitness certificates, got %d",
			t.ID, len(Departments), len(t.FitnessCertificates))
	}
	for _, c := range WearComponents {
		if t.MaintenanceThresholds.Component(c) <= 0 {
			return fmt.Errorf("train %s: non-positive %s threshold", t.ID, c)
		}
	}
	return nil
}
