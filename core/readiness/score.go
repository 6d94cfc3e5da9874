// Package readiness computes the 0-100 fitness-for-service score that both
// optimization layers consume. Scoring is pure: one train record and a
// reference date in, a score with its breakdown and explanations out.
package readiness

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kochimetro/induction/core/model"
)

// Factor names one scored dimension of a train's condition.
type Factor string

const (
	FactorFitness  Factor = "fitness_certificates"
	FactorJobCards Factor = "job_cards"
	FactorBranding Factor = "branding_contracts"
	FactorMileage  Factor = "mileage_balancing"
	FactorCleaning Factor = "cleaning_status"
)

// Factors lists the scored dimensions in reporting order.
var Factors = []Factor{FactorFitness, FactorJobCards, FactorBranding, FactorMileage, FactorCleaning}

// factorWeights are fixed by operational policy.
var factorWeights = map[Factor]float64{
	FactorFitness:  0.30,
	FactorJobCards: 0.30,
	FactorBranding: 0.10,
	FactorMileage:  0.20,
	FactorCleaning: 0.10,
}

// Score is the composite readiness of one train with its per-factor
// breakdown and human-readable explanations. Scores are derived data,
// recomputed every planning run.
type Score struct {
	TrainID         string             `json:"train_id"`
	Value           float64            `json:"score"`
	Breakdown       map[Factor]float64 `json:"breakdown"`
	Details         map[Factor]string  `json:"details"`
	Summary         string             `json:"summary"`
	BrandingUrgency int                `json:"branding_urgency"`
}

// Evaluate scores one train against the reference date. The reference date is
// the service day being planned, not wall-clock time, so identical inputs
// always yield identical scores.
func Evaluate(t model.Train, ref time.Time) Score {
	s := Score{
		TrainID:   t.ID,
		Breakdown: make(map[Factor]float64, len(Factors)),
		Details:   make(map[Factor]string, len(Factors)),
	}

	fitness, fitnessDetail := scoreFitness(t)
	jobs, jobsDetail := scoreJobCards(t)
	branding, urgency, brandingDetail := scoreBranding(t, ref)
	mileage, mileageDetail := scoreMileage(t)
	cleaning, cleaningDetail := scoreCleaning(t, ref)

	s.Breakdown[FactorFitness] = fitness
	s.Breakdown[FactorJobCards] = jobs
	s.Breakdown[FactorBranding] = branding
	s.Breakdown[FactorMileage] = mileage
	s.Breakdown[FactorCleaning] = cleaning
	s.Details[FactorFitness] = fitnessDetail
	s.Details[FactorJobCards] = jobsDetail
	s.Details[FactorBranding] = brandingDetail
	s.Details[FactorMileage] = mileageDetail
	s.Details[FactorCleaning] = cleaningDetail
	s.BrandingUrgency = urgency

	var total float64
	for f, w := range factorWeights {
		total += s.Breakdown[f] * w
	}
	total *= 1 + 0.1*float64(urgency)
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	s.Value = total
	s.Summary = summarize(s, fitness, jobs, mileage)
	return s
}

// EvaluateAll scores every train in the roster, keyed by train id.
func EvaluateAll(trains []model.Train, ref time.Time) map[string]Score {
	scores := make(map[string]Score, len(trains))
	for _, t := range trains {
		scores[t.ID] = Evaluate(t, ref)
	}
	return scores
}

// MaintenanceReasons returns the hard-constraint violations that force the
// train into maintenance, independent of its composite score.
func MaintenanceReasons(t model.Train) []string {
	var reasons []string
	depts := make([]string, 0, len(t.FitnessCertificates))
	for dept, cert := range t.FitnessCertificates {
		if cert.Status == model.CertExpired {
			depts = append(depts, string(dept))
		}
	}
	sort.Strings(depts)
	for _, d := range depts {
		reasons = append(reasons, fmt.Sprintf("expired %s fitness certificate", d))
	}
	for _, jc := range t.JobCards {
		if jc.Criticality == model.CriticalityCritical {
			reasons = append(reasons, fmt.Sprintf("critical job card: %s", jc.Description))
		}
	}
	for _, c := range t.OverdueComponents() {
		reasons = append(reasons, fmt.Sprintf("overdue %s maintenance", c))
	}
	return reasons
}

// RequiresMaintenance reports whether the train is barred from service by a
// hard maintenance rule.
func RequiresMaintenance(t model.Train) bool {
	return t.HasExpiredCertificate() || t.HasCriticalJobCard() || len(t.OverdueComponents()) > 0
}

func scoreFitness(t model.Train) (float64, string) {
	var expired []string
	for dept, cert := range t.FitnessCertificates {
		if cert.Status == model.CertExpired {
			expired = append(expired, string(dept))
		}
	}
	if len(expired) > 0 {
		sort.Strings(expired)
		return 0, "expired certificates: " + strings.Join(expired, ", ")
	}
	return 100, "all fitness certificates valid"
}

func scoreJobCards(t model.Train) (float64, string) {
	score := 100.0
	counts := map[model.Criticality]int{}
	for _, jc := range t.JobCards {
		counts[jc.Criticality]++
		switch jc.Criticality {
		case model.CriticalityCritical:
			score = 0
		case model.CriticalityHigh:
			score *= 0.5
		case model.CriticalityMedium:
			score *= 0.75
		case model.CriticalityLow:
			score *= 0.9
		}
	}
	if len(t.JobCards) == 0 {
		return 100, "no open job cards"
	}
	var parts []string
	for _, c := range []model.Criticality{model.CriticalityCritical, model.CriticalityHigh, model.CriticalityMedium, model.CriticalityLow} {
		if counts[c] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[c], c))
		}
	}
	return score, "open job cards: " + strings.Join(parts, ", ")
}

func scoreBranding(t model.Train, ref time.Time) (float64, int, string) {
	if len(t.BrandingContracts) == 0 {
		return 100, 0, "no branding contracts"
	}
	score := 100.0
	urgency := 0
	var parts []string
	for _, c := range t.BrandingContracts {
		days := c.Deadline.DaysUntil(ref)
		if days > 0 {
			perDay := c.RemainingHours() / float64(days)
			switch {
			case perDay > 8:
				score *= 1.5
				urgency += 2
				parts = append(parts, fmt.Sprintf("%s: %.1fh/day needed (urgent)", c.Brand, perDay))
			case perDay > 4:
				score *= 1.2
				urgency++
				parts = append(parts, fmt.Sprintf("%s: %.1fh/day needed (elevated)", c.Brand, perDay))
			default:
				parts = append(parts, fmt.Sprintf("%s: %.1fh/day needed", c.Brand, perDay))
			}
		} else {
			score *= 0.5
			parts = append(parts, fmt.Sprintf("%s: deadline passed", c.Brand))
		}
	}
	return score, urgency, strings.Join(parts, " | ")
}

func scoreMileage(t model.Train) (float64, string) {
	score := 100.0
	var parts []string
	for _, comp := range model.WearComponents {
		current := t.Mileage.Component(comp)
		threshold := t.MaintenanceThresholds.Component(comp)
		remaining := threshold - current
		switch {
		case remaining <= 0:
			score = 0
			parts = append(parts, fmt.Sprintf("%s overdue (%.0f/%.0f km)", comp, current, threshold))
		case remaining < 1000:
			score *= 0.5
			parts = append(parts, fmt.Sprintf("%s critical (%.0f/%.0f km)", comp, current, threshold))
		case remaining < 2000:
			score *= 0.7
			parts = append(parts, fmt.Sprintf("%s warning (%.0f/%.0f km)", comp, current, threshold))
		case remaining < 3000:
			score *= 0.9
			parts = append(parts, fmt.Sprintf("%s notice (%.0f/%.0f km)", comp, current, threshold))
		default:
			parts = append(parts, fmt.Sprintf("%s good (%.0f/%.0f km)", comp, current, threshold))
		}
	}
	return score, strings.Join(parts, " | ")
}

func scoreCleaning(t model.Train, ref time.Time) (float64, string) {
	days := t.LastDeepClean.DaysSince(ref)
	switch {
	case days > 7:
		return 50, fmt.Sprintf("cleaning overdue (%d days since last deep clean)", days)
	case days > 5:
		return 75, fmt.Sprintf("cleaning due soon (%d days since last deep clean)", days)
	default:
		return 100, fmt.Sprintf("cleaning current (%d days since last deep clean)", days)
	}
}

// summarize names the factors that clamped the score to zero so Layer 1 can
// surface hard-constraint reasons without re-deriving them.
func summarize(s Score, fitness, jobs, mileage float64) string {
	var parts []string
	if fitness == 0 {
		parts = append(parts, "expired certificates")
	}
	if jobs == 0 {
		parts = append(parts, "critical job cards")
	}
	if mileage == 0 {
		parts = append(parts, "overdue maintenance")
	}
	if s.BrandingUrgency > 0 {
		parts = append(parts, fmt.Sprintf("branding urgency %d", s.BrandingUrgency))
	}
	switch {
	case s.Value > 80:
		parts = append(parts, "excellent condition")
	case s.Value > 60:
		parts = append(parts, "good condition")
	default:
		parts = append(parts, "needs attention")
	}
	return strings.Join(parts, " | ")
}
