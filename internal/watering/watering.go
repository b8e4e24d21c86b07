package watering

import (
	"time"

	"plantcare-backend/internal/weather"
)

// PlantData is the subset of a catalog entry the schedule computation reads.
type PlantData struct {
	CommonName string
	// Family of the plant, used for cadence inference when no benchmark exists.
	Family       string
	FamilyFrench string
	// WateringLabel is the catalog's qualitative need ("frequent", "average",
	// "minimum", ...).
	WateringLabel string
	// BenchmarkValue is the nominal cadence descriptor: a symbolic frequency
	// label ("weekly"), a day count ("7") or a day range ("5-7"). May arrive
	// double-encoded from the catalog.
	BenchmarkValue string
	BenchmarkUnit  string
}

// Urgency classifies how soon a plant needs watering.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent" // overdue
	UrgencyToday  Urgency = "today"  // within 24h
	UrgencySoon   Urgency = "soon"   // within 48h
	UrgencyNormal Urgency = "normal"
)

// Schedule is the computed watering plan for one user plant. It is always
// fully populated; missing inputs are replaced with defaults, never surfaced
// as errors.
type Schedule struct {
	NextWateringAt time.Time `json:"next_watering_date"`
	HoursUntil     float64   `json:"hours_until_watering"`
	DaysUntil      float64   `json:"days_until_watering"`
	FrequencyDays  int       `json:"watering_frequency_days"`
	Adjustment     int       `json:"weather_adjustment_days"`
	Urgency        Urgency   `json:"urgency"`
	Recommendation string    `json:"recommendation"`
	Strategy       string    `json:"strategy"`
}

// Strategy computes a watering schedule from plant data and a weather
// snapshot. Implementations are pure: they never mutate their inputs and never
// fail. A nil lastWateredAt means the plant is being watered right now.
type Strategy interface {
	Name() string
	Compute(plant PlantData, w *weather.Snapshot, lastWateredAt *time.Time, now time.Time) Schedule
}

// buildSchedule fills in the derived fields shared by all strategies.
func buildSchedule(name string, effectiveDays, adjustment int, lastWateredAt *time.Time, now time.Time) Schedule {
	lastWatered := now
	if lastWateredAt != nil {
		lastWatered = *lastWateredAt
	}
	next := lastWatered.Add(time.Duration(effectiveDays) * 24 * time.Hour)
	hours := next.Sub(now).Hours()

	return Schedule{
		NextWateringAt: next,
		HoursUntil:     hours,
		DaysUntil:      round1(hours / 24),
		FrequencyDays:  effectiveDays,
		Adjustment:     adjustment,
		Urgency:        classify(hours),
		Recommendation: recommendation(hours),
		Strategy:       name,
	}
}

func classify(hoursUntil float64) Urgency {
	switch {
	case hoursUntil <= 0:
		return UrgencyUrgent
	case hoursUntil <= 24:
		return UrgencyToday
	case hoursUntil <= 48:
		return UrgencySoon
	default:
		return UrgencyNormal
	}
}
