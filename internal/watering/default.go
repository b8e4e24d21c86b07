package watering

import (
	"strings"
	"time"

	"plantcare-backend/internal/weather"
)

// Neutral assumptions substituted for missing weather fields.
const (
	neutralHumidity = 50
	neutralTempC    = 20.0
)

// DefaultStrategy adjusts the plant's nominal cadence for the live weather:
// humid or cold air delays drying, heat and sun dry the soil faster, and rain
// dominates. The effective cadence is clamped to [1, 2×base] days.
type DefaultStrategy struct{}

func (DefaultStrategy) Name() string { return "default" }

func (s DefaultStrategy) Compute(plant PlantData, w *weather.Snapshot, lastWateredAt *time.Time, now time.Time) Schedule {
	base := ExtractBaseDays(plant.BenchmarkValue)
	adjusted, adjustment := adjustForWeather(base, w)
	return buildSchedule(s.Name(), adjusted, adjustment, lastWateredAt, now)
}

// adjustForWeather applies the additive weather deltas and clamps the result.
// The rain and sun deltas are exclusive, rain winning.
func adjustForWeather(baseDays int, w *weather.Snapshot) (effective, adjustment int) {
	humidity := neutralHumidity
	tempC := neutralTempC
	condition := ""
	if w != nil {
		if w.Current.Humidity != nil {
			humidity = *w.Current.Humidity
		}
		if w.Current.TempC != nil {
			tempC = *w.Current.TempC
		}
		condition = strings.ToLower(w.Current.Condition.Text)
	}

	if humidity > 70 {
		adjustment++
	} else if humidity < 30 {
		adjustment--
	}

	if tempC > 25 {
		adjustment--
	} else if tempC < 15 {
		adjustment++
	}

	if strings.Contains(condition, "rain") || strings.Contains(condition, "drizzle") {
		adjustment += 2
	} else if strings.Contains(condition, "sunny") || strings.Contains(condition, "clear") {
		adjustment--
	}

	effective = baseDays + adjustment
	if effective > baseDays*2 {
		effective = baseDays * 2
	}
	if effective < 1 {
		effective = 1
	}
	return effective, adjustment
}
