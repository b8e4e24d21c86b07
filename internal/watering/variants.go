package watering

import (
	"strings"
	"time"

	"plantcare-backend/internal/weather"
)

// FallbackStrategy ignores the weather entirely. When the benchmark yields
// nothing better than the default, it infers a cadence from the plant family:
// cactus family plants hold water, ferns dry out fast.
type FallbackStrategy struct{}

func (FallbackStrategy) Name() string { return "fallback" }

func (s FallbackStrategy) Compute(plant PlantData, _ *weather.Snapshot, lastWateredAt *time.Time, now time.Time) Schedule {
	base := ExtractBaseDays(plant.BenchmarkValue)
	if base == defaultCadenceDays {
		family := strings.ToLower(plant.FamilyFrench)
		if family == "" {
			family = strings.ToLower(plant.Family)
		}
		switch {
		case strings.Contains(family, "cactus") || strings.Contains(family, "cactaceae"):
			base = 14
		case strings.Contains(family, "fougère") || strings.Contains(family, "fern"):
			base = 4
		}
	}
	return buildSchedule(s.Name(), base, 0, lastWateredAt, now)
}

// SeasonalStrategy adjusts the nominal cadence by calendar month instead of
// live weather: more frequent in summer, less in winter.
type SeasonalStrategy struct{}

func (SeasonalStrategy) Name() string { return "seasonal" }

func (s SeasonalStrategy) Compute(plant PlantData, _ *weather.Snapshot, lastWateredAt *time.Time, now time.Time) Schedule {
	base := ExtractBaseDays(plant.BenchmarkValue)
	adjustment := 0
	switch month := now.Month(); {
	case month >= time.June && month <= time.August:
		adjustment = -2
	case month == time.December || month <= time.February:
		adjustment = 2
	}
	effective := base + adjustment
	if effective < 1 {
		effective = 1
	}
	return buildSchedule(s.Name(), effective, adjustment, lastWateredAt, now)
}

// SensitiveStrategy tightens the schedule for plants whose watering need sits
// at either extreme: both "frequent" and "minimum" labels mean the plant
// reacts badly to being missed, so the cadence is shortened by 2 days.
type SensitiveStrategy struct{}

func (SensitiveStrategy) Name() string { return "sensitive" }

func (s SensitiveStrategy) Compute(plant PlantData, _ *weather.Snapshot, lastWateredAt *time.Time, now time.Time) Schedule {
	base := ExtractBaseDays(plant.BenchmarkValue)
	adjustment := 0
	label := strings.ToLower(plant.WateringLabel)
	if label == "frequent" || label == "minimum" {
		adjustment = -2
	}
	effective := base + adjustment
	if effective < 1 {
		effective = 1
	}
	return buildSchedule(s.Name(), effective, adjustment, lastWateredAt, now)
}
