package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// DateLayout is the layout of day bucket keys
const DateLayout = "2006-01-02"

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, assuming logger might not be configured when this is called.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// DayKey returns the UTC day bucket of t
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDay parses a day bucket key
func ParseDay(day string) (time.Time, error) {
	return time.Parse(DateLayout, day)
}

// SameDay reports whether a and b fall on the same UTC day
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// IsPreviousDay reports whether prev is the UTC day right before t
func IsPreviousDay(prev, t time.Time) bool {
	return DayKey(prev) == DayKey(t.UTC().AddDate(0, 0, -1))
}
