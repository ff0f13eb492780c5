package algo

import (
	"math"
	"sort"
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

const secondsPerDay = 86400.0

// spanSeconds is hi minus lo in seconds. Unlike time.Time.Sub it does not
// saturate for spans beyond roughly 292 years.
func spanSeconds(lo, hi time.Time) float64 {
	return float64(hi.Unix()-lo.Unix()) + float64(hi.Nanosecond()-lo.Nanosecond())/1e9
}

// gapThreshold is an inclusive upper bound on the median gap in days.
type gapThreshold struct {
	maxDays float64
	kind    schema.IntervalType
}

// gapThresholds are evaluated in order; the first bound that holds wins.
var gapThresholds = []gapThreshold{
	{1, schema.Daily},
	{10, schema.Weekly},
	{40, schema.Monthly},
	{120, schema.Quarterly},
	{400, schema.Yearly},
}

// IntervalTypeForGap maps a median gap in days to an interval type.
// A NaN gap has no cadence and yields InsufficientData.
func IntervalTypeForGap(days float64) schema.IntervalType {
	if math.IsNaN(days) {
		return schema.InsufficientData
	}
	for _, th := range gapThresholds {
		if days <= th.maxDays {
			return th.kind
		}
	}
	return schema.Irregular
}

// ClassifyIntervals computes the interval profile of pre-filtered instants.
// The input may be unsorted; it is not modified.
func ClassifyIntervals(times []time.Time) schema.IntervalProfile {
	n := len(times)
	if n < 2 {
		return insufficientProfile(n)
	}

	sorted := sortedCopy(times)
	timespan := spanSeconds(sorted[0], sorted[n-1]) / secondsPerDay
	if timespan == 0 {
		// All instants coincide: there is no cadence to classify.
		return insufficientProfile(n)
	}

	gaps := make([]float64, n-1)
	for i := 1; i < n; i++ {
		gaps[i-1] = spanSeconds(sorted[i-1], sorted[i]) / secondsPerDay
	}

	median := Median(gaps)
	return schema.IntervalProfile{
		Type:             IntervalTypeForGap(median),
		MedianGapDays:    median,
		Consistency:      Consistency(gaps, median),
		TimespanDays:     timespan,
		ObservationCount: n,
	}
}

// Consistency scores how uniform the gaps are: 1 - sd/median, clamped to [0,1].
// An undefined or zero median scores 0.
func Consistency(gaps []float64, median float64) float64 {
	if len(gaps) == 0 || math.IsNaN(median) || median == 0 {
		return 0
	}
	score := 1 - StdDev(gaps)/median
	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(1, score))
}

// Median returns the median of values, or NaN for an empty slice.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// StdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two values have no spread and return 0.
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func insufficientProfile(n int) schema.IntervalProfile {
	return schema.IntervalProfile{
		Type:             schema.InsufficientData,
		MedianGapDays:    math.NaN(),
		Consistency:      0,
		TimespanDays:     0,
		ObservationCount: n,
	}
}
