package timestamp

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// layouts are tried in order for string timestamps without a zone suffix
// being interpreted as UTC.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// Epoch magnitude thresholds used to guess the unit of a numeric timestamp.
const (
	millisThreshold = 1e11 // above: milliseconds
	microsThreshold = 1e14 // above: microseconds
	nanosThreshold  = 1e17 // above: nanoseconds
)

// Coerce converts a decoded JSON value into an instant. Strings are parsed
// with the known layouts (numeric strings are treated as epochs); numbers are
// epochs whose unit is inferred from magnitude.
func Coerce(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		return Parse(x)
	case float64:
		return FromEpoch(x), true
	case int:
		return FromEpoch(float64(x)), true
	case int64:
		return FromEpoch(float64(x)), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return FromEpoch(f), true
	default:
		return time.Time{}, false
	}
}

// Parse parses a textual timestamp.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FromEpoch(f), true
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromEpoch converts an epoch number in s, ms, us or ns to UTC.
func FromEpoch(f float64) time.Time {
	abs := math.Abs(f)
	switch {
	case abs >= nanosThreshold:
		return time.Unix(0, int64(f)).UTC()
	case abs >= microsThreshold:
		return time.UnixMicro(int64(f)).UTC()
	case abs >= millisThreshold:
		return time.UnixMilli(int64(f)).UTC()
	default:
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
}

// ParseClock parses a 24-hour "HH:MM:SS" (or "HH:MM") clock string into
// seconds since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("clock %q: want HH:MM:SS", s)
	}
	limits := []int{23, 59, 59}
	mult := []int{3600, 60, 1}
	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("clock %q: %w", s, err)
		}
		if n < 0 || n > limits[i] {
			return 0, fmt.Errorf("clock %q: field %d out of range", s, i+1)
		}
		total += n * mult[i]
	}
	return total, nil
}

// SecondsOfDay returns the wall-clock seconds since midnight of t in loc.
func SecondsOfDay(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	h, m, s := t.Clock()
	return h*3600 + m*60 + s
}
