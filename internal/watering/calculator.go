package watering

import (
	"log"
	"time"

	"plantcare-backend/internal/weather"
)

// Calculator wraps the configured strategy behind a single operation. It holds
// no state beyond the strategy and a clock, so one instance serves all
// requests.
type Calculator struct {
	strategy Strategy
	now      func() time.Time
}

// NewCalculator selects a strategy by its configured name. Unknown names fall
// back to the default strategy with a log warning.
func NewCalculator(strategyName string) *Calculator {
	var strategy Strategy
	switch strategyName {
	case "", "default":
		strategy = DefaultStrategy{}
	case "fallback":
		strategy = FallbackStrategy{}
	case "seasonal":
		strategy = SeasonalStrategy{}
	case "sensitive":
		strategy = SensitiveStrategy{}
	default:
		log.Printf("unknown watering strategy %q, using default", strategyName)
		strategy = DefaultStrategy{}
	}
	return &Calculator{strategy: strategy, now: time.Now}
}

// NewCalculatorWithStrategy builds a calculator around an explicit strategy.
func NewCalculatorWithStrategy(strategy Strategy) *Calculator {
	return &Calculator{strategy: strategy, now: time.Now}
}

// NextWatering computes the schedule for one plant under the given weather.
// A nil weather snapshot and a nil last-watered time are both valid: the
// strategy substitutes neutral weather, and an unknown watering time is
// treated as "watered right now".
func (c *Calculator) NextWatering(plant PlantData, w *weather.Snapshot, lastWateredAt *time.Time) Schedule {
	return c.strategy.Compute(plant, w, lastWateredAt, c.now().UTC())
}
