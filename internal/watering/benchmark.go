package watering

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// defaultCadenceDays is used whenever the benchmark is absent or unparseable.
const defaultCadenceDays = 7

// unwrapLimit caps the attempts to peel a double-encoded benchmark value.
const unwrapLimit = 3

// frequencyDays maps the catalog's symbolic frequency labels to day counts.
var frequencyDays = map[string]int{
	"daily":         1,
	"every 2 days":  2,
	"every 3 days":  3,
	"twice a week":  3,
	"weekly":        7,
	"every 10 days": 10,
	"biweekly":      14,
	"every 2 weeks": 14,
	"monthly":       30,
}

// ExtractBaseDays converts a nominal cadence descriptor into a day count.
// Accepted forms: a symbolic frequency label, a plain integer, or a hyphenated
// day range averaged and rounded. Some catalog rows arrive double-encoded
// (`"\"5-7\""`); those are unwrapped before parsing. Anything else falls back
// to the 7-day default, silently.
func ExtractBaseDays(value string) int {
	v := unwrap(value)
	if v == "" {
		return defaultCadenceDays
	}

	if days, ok := frequencyDays[strings.ToLower(v)]; ok {
		return days
	}

	if lo, hi, ok := splitRange(v); ok {
		return int(math.Round(float64(lo+hi) / 2))
	}

	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}

	return defaultCadenceDays
}

// unwrap strips layers of JSON string encoding from a benchmark value.
func unwrap(value string) string {
	v := strings.TrimSpace(value)
	for i := 0; i < unwrapLimit; i++ {
		if len(v) < 2 || !strings.HasPrefix(v, `"`) {
			break
		}
		unquoted, err := strconv.Unquote(v)
		if err != nil {
			break
		}
		v = strings.TrimSpace(unquoted)
	}
	return v
}

// splitRange parses a "lo-hi" day range.
func splitRange(v string) (lo, hi int, ok bool) {
	idx := strings.Index(v, "-")
	if idx <= 0 {
		return 0, 0, false
	}
	lo, errLo := strconv.Atoi(strings.TrimSpace(v[:idx]))
	hi, errHi := strconv.Atoi(strings.TrimSpace(v[idx+1:]))
	if errLo != nil || errHi != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func recommendation(hoursUntil float64) string {
	switch {
	case hoursUntil <= 0:
		return "Il est temps d'arroser votre plante !"
	case hoursUntil <= 24:
		return "Préparez-vous à arroser votre plante dans les prochaines 24h."
	case hoursUntil <= 48:
		return "Votre plante aura besoin d'eau dans 2 jours."
	default:
		days := int(math.Round(hoursUntil / 24))
		return fmt.Sprintf("Votre plante aura besoin d'eau dans %d jours.", days)
	}
}
