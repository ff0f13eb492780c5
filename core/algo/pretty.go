package algo

import (
	"math"
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// DefaultNumericBreaks is the tick target used for numeric axes.
const DefaultNumericBreaks = 8

// prettyStep is one rung of the temporal step ladder. Sub-day steps use a fixed
// duration; the rest step by calendar units.
type prettyStep struct {
	d time.Duration
	g schema.Granularity
}

func (s prettyStep) seconds() float64 {
	if s.d > 0 {
		return s.d.Seconds()
	}
	return GranularitySeconds(s.g)
}

func (s prettyStep) floor(t time.Time) time.Time {
	if s.d > 0 {
		return t.Truncate(s.d)
	}
	return floorTo(t, s.g)
}

func (s prettyStep) at(origin time.Time, k int) time.Time {
	if s.d > 0 {
		return origin.Add(time.Duration(k) * s.d)
	}
	return advance(origin, s.g, k)
}

var prettyLadder = []prettyStep{
	{d: time.Hour},
	{d: 2 * time.Hour},
	{d: 6 * time.Hour},
	{d: 12 * time.Hour},
	{g: every(1, schema.UnitDay)},
	{g: every(2, schema.UnitDay)},
	{g: every(1, schema.UnitWeek)},
	{g: every(2, schema.UnitWeek)},
	{g: every(1, schema.UnitMonth)},
	{g: every(2, schema.UnitMonth)},
	{g: every(3, schema.UnitMonth)},
	{g: every(6, schema.UnitMonth)},
	{g: every(1, schema.UnitYear)},
	{g: every(2, schema.UnitYear)},
	{g: every(5, schema.UnitYear)},
	{g: every(10, schema.UnitYear)},
	{g: every(20, schema.UnitYear)},
	{g: every(50, schema.UnitYear)},
}

// PrettyTimeBreaks returns roughly n evenly spaced, calendar-aligned ticks
// covering [lo, hi]. The first tick is always lo.
func PrettyTimeBreaks(lo, hi time.Time, n int) schema.BreakSet {
	if lo.IsZero() || hi.IsZero() {
		return nil
	}
	lo, hi = lo.UTC(), hi.UTC()
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	if !hi.After(lo) {
		return schema.BreakSet{lo}
	}
	if n < 2 {
		n = 2
	}

	span := spanSeconds(lo, hi)
	best := prettyLadder[0]
	bestScore := math.MaxFloat64
	for _, s := range prettyLadder {
		count := math.Ceil(span/s.seconds()) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			best = s
		}
	}

	start := best.floor(lo)
	var ticks []time.Time
	for k := 0; k < maxGeneratedTicks; k++ {
		t := best.at(start, k)
		ticks = append(ticks, t)
		if !t.Before(hi) {
			break
		}
	}
	return anchor(ticks, lo)
}

// PrettyBreaks returns numeric ticks with 1, 2, 2.5, 5 or 10 times a power of ten
// as the step, picking the step whose tick count is closest to n.
func PrettyBreaks(lo, hi float64, n int) []float64 {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	if n < 2 {
		n = 2
	}
	if hi == lo {
		// Degenerate range: widen to the surrounding unit interval.
		pad := math.Max(math.Abs(lo)*0.1, 1)
		lo, hi = lo-pad, hi+pad
	}

	span := hi - lo
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	step := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		candidate := c * mag
		count := math.Ceil(span/candidate) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			step = candidate
		}
	}

	first := math.Floor(lo/step + 1e-9)
	last := math.Ceil(hi/step - 1e-9)
	ticks := make([]float64, 0, int(last-first)+1)
	for k := first; k <= last && len(ticks) < maxGeneratedTicks; k++ {
		ticks = append(ticks, cleanFloat(k*step))
	}
	return ticks
}

// cleanFloat strips binary rounding noise such as 0.30000000000000004.
func cleanFloat(v float64) float64 {
	if v == 0 {
		return 0
	}
	scale := math.Pow(10, 12-math.Ceil(math.Log10(math.Abs(v))))
	return math.Round(v*scale) / scale
}
