package algo

import (
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// MaxBreaks is the soft cap on the number of generated ticks.
const MaxBreaks = 15

// Nominal unit lengths in seconds. A month is approximated as 30 days.
const (
	daySeconds   = 86400.0
	weekSeconds  = 604800.0
	monthSeconds = 2592000.0
	yearSeconds  = 31536000.0
)

// Multiplier candidates, tried smallest first.
var (
	weeklyMultipliers  = []int{2, 4, 13}
	monthlyMultipliers = []int{3, 6, 12}
	defaultMultipliers = []int{2, 4, 8}
)

// maxGeneratedTicks bounds tick generation for pathological spans.
const maxGeneratedTicks = 10000

// SelectMultiplier returns the smallest candidate that brings potential under
// MaxBreaks, 1 when no thinning is needed, or the largest candidate as a last resort.
func SelectMultiplier(potential float64, candidates []int) int {
	if potential <= MaxBreaks || len(candidates) == 0 {
		return 1
	}
	for _, m := range candidates {
		if potential/float64(m) <= MaxBreaks {
			return m
		}
	}
	return candidates[len(candidates)-1]
}

// MultipliersFor returns the candidate multiplier set of an interval type.
func MultipliersFor(kind schema.IntervalType) []int {
	switch kind {
	case schema.Weekly:
		return weeklyMultipliers
	case schema.Monthly:
		return monthlyMultipliers
	default:
		return defaultMultipliers
	}
}

// unitSeconds returns the nominal length of one unit.
func unitSeconds(u schema.TimeUnit) float64 {
	switch u {
	case schema.UnitDay:
		return daySeconds
	case schema.UnitWeek:
		return weekSeconds
	case schema.UnitMonth:
		return monthSeconds
	case schema.UnitYear:
		return yearSeconds
	default:
		return 0
	}
}

// GranularitySeconds returns the nominal length of g in seconds, 0 for no granularity.
func GranularitySeconds(g schema.Granularity) float64 {
	if g.IsZero() {
		return 0
	}
	return float64(g.Count) * unitSeconds(g.Unit)
}

// CalculateBreaks computes calendar-aligned ticks covering [lo, hi].
// It returns false when no step can be resolved: the type has no base interval
// and the plan carries no granularity, or there is no data.
func CalculateBreaks(lo, hi time.Time, kind schema.IntervalType, plan schema.FormatPlan) (schema.BreakSet, bool) {
	if lo.IsZero() || hi.IsZero() {
		return nil, false
	}
	lo, hi = lo.UTC(), hi.UTC()
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	span := spanSeconds(lo, hi)

	var (
		base       schema.Granularity
		mult       int
		start, end time.Time
	)

	switch kind {
	case schema.Daily:
		// Daily data steps in units of the plan's nominal granularity so the
		// multiplier set scales with it.
		base = plan.Granularity
		if base.IsZero() {
			base = every(1, schema.UnitDay)
		}
		mult = SelectMultiplier(span/GranularitySeconds(base), defaultMultipliers)
		start = lo
		end = ceilTo(hi, every(1, schema.UnitDay))

	case schema.Weekly:
		base = every(1, schema.UnitWeek)
		mult = SelectMultiplier(span/weekSeconds, weeklyMultipliers)
		start = floorTo(lo, base)
		end = ceilTo(hi, base)

	case schema.Monthly:
		base = every(1, schema.UnitMonth)
		mult = SelectMultiplier(span/monthSeconds, monthlyMultipliers)
		start = floorTo(lo, base)
		end = ceilTo(hi, base)

	default:
		return ExplicitBreaks(lo, hi, plan.Granularity)
	}

	step := schema.Granularity{Count: base.Count * mult, Unit: base.Unit}
	ticks := generate(start, advance(end, step, 1), step)
	return anchor(ticks, lo), true
}

// ExplicitBreaks steps by g with no density multiplier, starting from lo floored
// to g's calendar boundary. It returns false when g is zero or there is no data.
func ExplicitBreaks(lo, hi time.Time, g schema.Granularity) (schema.BreakSet, bool) {
	if g.IsZero() || lo.IsZero() || hi.IsZero() {
		return nil, false
	}
	lo, hi = lo.UTC(), hi.UTC()
	if hi.Before(lo) {
		lo, hi = hi, lo
	}
	ticks := generate(floorTo(lo, g), advance(ceilTo(hi, g), g, 1), g)
	return anchor(ticks, lo), true
}

// generate steps from start up to and including limit. Each tick is computed
// from the origin so calendar months never drift.
func generate(start, limit time.Time, step schema.Granularity) []time.Time {
	var ticks []time.Time
	for k := 0; k < maxGeneratedTicks; k++ {
		t := advance(start, step, k)
		if t.After(limit) {
			break
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// anchor drops ticks below lo and guarantees lo is the first tick.
func anchor(ticks []time.Time, lo time.Time) schema.BreakSet {
	out := make(schema.BreakSet, 0, len(ticks)+1)
	for _, t := range ticks {
		if t.Before(lo) {
			continue
		}
		if len(out) > 0 && !t.After(out[len(out)-1]) {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 || !out[0].Equal(lo) {
		out = append(schema.BreakSet{lo}, out...)
	}
	return out
}

// advance moves t forward by k steps.
func advance(t time.Time, step schema.Granularity, k int) time.Time {
	n := step.Count * k
	switch step.Unit {
	case schema.UnitDay:
		return t.AddDate(0, 0, n)
	case schema.UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case schema.UnitMonth:
		return addMonths(t, n)
	case schema.UnitYear:
		return addMonths(t, 12*n)
	default:
		return t
	}
}

// addMonths adds calendar months, clamping the day to the target month's length.
func addMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	h, mi, s := t.Clock()
	return time.Date(first.Year(), first.Month(), d, h, mi, s, t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// floorTo rounds t down to the calendar boundary of g. Month and year counts
// align to blocks counted from January (quarters, half-years, even years).
func floorTo(t time.Time, g schema.Granularity) time.Time {
	t = t.UTC()
	y, m, d := t.Date()
	count := max(g.Count, 1)
	switch g.Unit {
	case schema.UnitWeek:
		offset := (int(t.Weekday()) + 6) % 7 // Monday-based weeks
		return time.Date(y, m, d-offset, 0, 0, 0, 0, time.UTC)
	case schema.UnitMonth:
		m0 := int(m-1) - int(m-1)%count
		return time.Date(y, time.Month(m0+1), 1, 0, 0, 0, 0, time.UTC)
	case schema.UnitYear:
		return time.Date(y-y%count, time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
}

// ceilTo rounds t up to the next calendar boundary of g unless it already sits on one.
func ceilTo(t time.Time, g schema.Granularity) time.Time {
	f := floorTo(t, g)
	if f.Equal(t) {
		return f
	}
	unit := schema.Granularity{Count: 1, Unit: g.Unit}
	if g.Unit == schema.UnitMonth || g.Unit == schema.UnitYear {
		unit.Count = max(g.Count, 1)
	}
	return advance(f, unit, 1)
}
