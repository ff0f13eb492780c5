package algo

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// timestampLayouts are tried in order when parsing temporal strings.
// Date-only layouts come first so "2024-01-01" never matches a timestamp layout.
var timestampLayouts = []string{
	time.DateOnly,
	"02-01-2006", // Danish dd-mm-yyyy
	"02.01.2006",
	"2006/01/02",
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04",
}

// missingTokens are string values treated as missing entries.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"nan":  {},
	"null": {},
	"nil":  {},
	"-":    {},
}

// IsMissingToken reports whether s denotes a missing value.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// ParseTemporal parses s with the supported date and timestamp layouts.
// Date-only values become midnight UTC; zoned timestamps are converted to UTC.
func ParseTemporal(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseNumeric parses a finite decimal number. A single decimal comma is
// accepted in place of a point ("3,5").
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NormalizeNumbers drops NaN and infinite values.
func NormalizeNumbers(values []float64) (numbers []float64, dropped int) {
	numbers = make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			dropped++
			continue
		}
		numbers = append(numbers, v)
	}
	return numbers, dropped
}

// FromDate converts a date-only value to its canonical instant (midnight UTC).
func FromDate(d civil.Date) time.Time {
	return d.In(time.UTC)
}

// Normalize coerces heterogeneous temporal values into UTC instants.
// Supported element types are time.Time, *time.Time, civil.Date, *civil.Date,
// civil.DateTime and string. Missing and invalid entries are dropped and counted.
// The returned slice keeps input order.
func Normalize(values []any) (times []time.Time, dropped int) {
	times = make([]time.Time, 0, len(values))
	for _, v := range values {
		t, ok := normalizeOne(v)
		if !ok {
			dropped++
			continue
		}
		times = append(times, t)
	}
	return times, dropped
}

// NormalizeTimes drops zero instants and converts the rest to UTC.
func NormalizeTimes(values []time.Time) (times []time.Time, dropped int) {
	times = make([]time.Time, 0, len(values))
	for _, t := range values {
		if t.IsZero() {
			dropped++
			continue
		}
		times = append(times, t.UTC())
	}
	return times, dropped
}

// NormalizeDates drops invalid dates and converts the rest to midnight UTC.
func NormalizeDates(values []civil.Date) (times []time.Time, dropped int) {
	times = make([]time.Time, 0, len(values))
	for _, d := range values {
		if !d.IsValid() || d.IsZero() {
			dropped++
			continue
		}
		times = append(times, FromDate(d))
	}
	return times, dropped
}

func normalizeOne(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case civil.Date:
		if !x.IsValid() || x.IsZero() {
			return time.Time{}, false
		}
		return FromDate(x), true
	case *civil.Date:
		if x == nil || !x.IsValid() || x.IsZero() {
			return time.Time{}, false
		}
		return FromDate(*x), true
	case civil.DateTime:
		if !x.IsValid() || x.IsZero() {
			return time.Time{}, false
		}
		return x.In(time.UTC), true
	case string:
		if IsMissingToken(x) {
			return time.Time{}, false
		}
		return ParseTemporal(x)
	default:
		return time.Time{}, false
	}
}

// sortedCopy returns the instants in ascending order without touching the input.
func sortedCopy(times []time.Time) []time.Time {
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Before(sorted[j])
	})
	return sorted
}
