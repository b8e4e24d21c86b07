package watering

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"plantcare-backend/internal/weather"
)

func snapshot(tempC float64, humidity int, condition string) *weather.Snapshot {
	return &weather.Snapshot{
		Current: weather.Current{
			TempC:     &tempC,
			Humidity:  &humidity,
			Condition: weather.Condition{Text: condition},
		},
	}
}

func TestAdjustForWeather(t *testing.T) {
	testCases := []struct {
		name               string
		baseDays           int
		weather            *weather.Snapshot
		expectedEffective  int
		expectedAdjustment int
	}{
		{
			name:               "Humid cold rain extends the cadence",
			baseDays:           7,
			weather:            snapshot(15.0, 85, "Light rain"),
			expectedEffective:  9,
			expectedAdjustment: 2,
		},
		{
			name:               "Dry hot sun shortens the cadence",
			baseDays:           7,
			weather:            snapshot(35.0, 20, "Sunny"),
			expectedEffective:  4,
			expectedAdjustment: -3,
		},
		{
			name:               "Neutral weather leaves the base untouched",
			baseDays:           7,
			weather:            snapshot(20.0, 50, "Cloudy"),
			expectedEffective:  7,
			expectedAdjustment: 0,
		},
		{
			name:               "Missing snapshot uses neutral defaults",
			baseDays:           7,
			weather:            nil,
			expectedEffective:  7,
			expectedAdjustment: 0,
		},
		{
			name:               "Rain wins over other sky conditions",
			baseDays:           7,
			weather:            snapshot(20.0, 50, "Patchy rain nearby"),
			expectedEffective:  9,
			expectedAdjustment: 2,
		},
		{
			name:               "Drizzle counts as rain",
			baseDays:           7,
			weather:            snapshot(20.0, 50, "Light drizzle"),
			expectedEffective:  9,
			expectedAdjustment: 2,
		},
		{
			name:               "Clear sky shortens like sun",
			baseDays:           7,
			weather:            snapshot(20.0, 50, "Clear"),
			expectedEffective:  6,
			expectedAdjustment: -1,
		},
		{
			name:               "Effective cadence is clamped to twice the base",
			baseDays:           1,
			weather:            snapshot(10.0, 90, "Heavy rain"),
			expectedEffective:  2,
			expectedAdjustment: 4,
		},
		{
			name:               "Effective cadence never drops below one day",
			baseDays:           1,
			weather:            snapshot(35.0, 20, "Sunny"),
			expectedEffective:  1,
			expectedAdjustment: -3,
		},
		{
			name:               "Boundary values are not adjusted",
			baseDays:           7,
			weather:            snapshot(25.0, 70, "Overcast"),
			expectedEffective:  7,
			expectedAdjustment: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			effective, adjustment := adjustForWeather(tc.baseDays, tc.weather)
			assert.Equal(t, tc.expectedEffective, effective)
			assert.Equal(t, tc.expectedAdjustment, adjustment)
		})
	}
}

func TestDefaultStrategy_Compute(t *testing.T) {
	now := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	plant := PlantData{CommonName: "monstera", BenchmarkValue: "7"}

	t.Run("nil last watered means watered right now", func(t *testing.T) {
		s := DefaultStrategy{}.Compute(plant, nil, nil, now)

		assert.Equal(t, now.Add(7*24*time.Hour), s.NextWateringAt)
		assert.InDelta(t, 168.0, s.HoursUntil, 0.01)
		assert.Equal(t, 7.0, s.DaysUntil)
		assert.Equal(t, 7, s.FrequencyDays)
		assert.Equal(t, UrgencyNormal, s.Urgency)
		assert.Equal(t, "default", s.Strategy)
	})

	t.Run("overdue plant is urgent", func(t *testing.T) {
		lastWatered := now.Add(-10 * 24 * time.Hour)
		s := DefaultStrategy{}.Compute(plant, nil, &lastWatered, now)

		assert.True(t, s.HoursUntil < 0)
		assert.Equal(t, UrgencyUrgent, s.Urgency)
		assert.Equal(t, "Il est temps d'arroser votre plante !", s.Recommendation)
	})

	t.Run("due within the day", func(t *testing.T) {
		lastWatered := now.Add(-6*24*time.Hour - 12*time.Hour)
		s := DefaultStrategy{}.Compute(plant, nil, &lastWatered, now)

		assert.InDelta(t, 12.0, s.HoursUntil, 0.01)
		assert.Equal(t, UrgencyToday, s.Urgency)
	})

	t.Run("weather shifts the next watering date", func(t *testing.T) {
		lastWatered := now.Add(-24 * time.Hour)
		s := DefaultStrategy{}.Compute(plant, snapshot(15.0, 85, "Light rain"), &lastWatered, now)

		assert.Equal(t, 9, s.FrequencyDays)
		assert.Equal(t, 2, s.Adjustment)
		assert.Equal(t, lastWatered.Add(9*24*time.Hour), s.NextWateringAt)
	})
}

func TestCalculator_NextWatering(t *testing.T) {
	now := time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)
	calc := NewCalculator("default")
	calc.now = func() time.Time { return now }

	s := calc.NextWatering(PlantData{BenchmarkValue: "5-7"}, nil, nil)
	assert.Equal(t, 6, s.FrequencyDays)
	assert.Equal(t, now.Add(6*24*time.Hour), s.NextWateringAt)
}

func TestNewCalculator_UnknownStrategyFallsBack(t *testing.T) {
	calc := NewCalculator("bogus")
	s := calc.NextWatering(PlantData{BenchmarkValue: "7"}, nil, nil)
	assert.Equal(t, "default", s.Strategy)
}
