package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/johanreventlow/BFHcharts-sub001/core/algo"
	"github.com/johanreventlow/BFHcharts-sub001/internal/logger"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"go.uber.org/zap"
)

// DefaultTimeBreaks is the pretty-break target used when a plan names neither
// granularity nor target.
const DefaultTimeBreaks = 8

// Applier builds axes from raw series. It holds no per-call state and is safe
// for concurrent use.
type Applier struct {
	log *zap.Logger
}

// Option configures an Applier.
type Option func(*Applier)

// WithLogger routes advisories to l instead of the global logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Applier) {
		a.log = l
	}
}

// NewApplier creates an Applier.
func NewApplier(opts ...Option) *Applier {
	a := &Applier{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var defaultApplier = NewApplier()

// ApplyAxis builds an axis with the default applier.
func ApplyAxis(values any) (schema.Axis, bool) {
	return defaultApplier.Apply(values)
}

// ApplyTemporalPlan builds a temporal axis with a caller-supplied plan instead
// of the one the format selector would pick.
func ApplyTemporalPlan(times []time.Time, plan schema.FormatPlan) schema.Axis {
	return defaultApplier.ApplyPlan(times, plan)
}

func (a *Applier) logger() *zap.Logger {
	if a.log != nil {
		return a.log
	}
	return logger.Desugared()
}

// Apply dispatches on the kind of values. Temporal series get calendar-aligned
// breaks, numeric series get pretty breaks. Any other kind is left alone: the
// returned axis only carries an advisory and ok is false.
func (a *Applier) Apply(values any) (axis schema.Axis, ok bool) {
	switch v := values.(type) {
	case []time.Time:
		times, dropped := algo.NormalizeTimes(v)
		return a.temporal(times, dropped), true
	case []*time.Time:
		times, dropped := algo.Normalize(toAny(v))
		return a.temporal(times, dropped), true
	case []civil.Date:
		times, dropped := algo.NormalizeDates(v)
		return a.temporal(times, dropped), true
	case []civil.DateTime:
		times, dropped := algo.Normalize(toAny(v))
		return a.temporal(times, dropped), true
	case []float64:
		numbers, dropped := algo.NormalizeNumbers(v)
		return a.numeric(numbers, dropped), true
	case []int:
		return a.numeric(toFloats(v), 0), true
	case []int64:
		return a.numeric(toFloats(v), 0), true
	case []string:
		return a.inspect(toAny(v))
	case []any:
		return a.inspect(v)
	default:
		return a.unsupported(fmt.Sprintf("%T", values)), false
	}
}

// ApplyPlan builds a temporal axis using plan. Breaks step by the plan's
// granularity, or fall back to pretty breaks when it has none.
func (a *Applier) ApplyPlan(times []time.Time, plan schema.FormatPlan) schema.Axis {
	return a.applyPlan(times, plan, 0)
}

// applyPlan is ApplyPlan for times that already lost dropped values upstream.
func (a *Applier) applyPlan(times []time.Time, plan schema.FormatPlan, dropped int) schema.Axis {
	valid, invalid := algo.NormalizeTimes(times)
	axis := schema.Axis{
		Kind:    schema.TemporalInput,
		Profile: algo.ClassifyIntervals(valid),
		Plan:    plan,
		Dropped: dropped + invalid,
	}
	a.noteDropped(&axis)
	if len(valid) == 0 {
		a.advise(&axis, schema.AdvisoryInsufficientData, "no valid temporal values")
		axis.Breaks = schema.BreakSet{}
		return axis
	}

	lo, hi := bounds(valid)
	breaks, ok := algo.ExplicitBreaks(lo, hi, plan.Granularity)
	if !ok {
		target := plan.TargetBreaks
		if target <= 0 {
			target = DefaultTimeBreaks
		}
		a.advise(&axis, schema.AdvisoryUnresolvableGranularity,
			fmt.Sprintf("plan has no granularity, using %d pretty breaks", target))
		breaks = algo.PrettyTimeBreaks(lo, hi, target)
	}
	axis.Breaks = breaks
	axis.Labels = algo.FormatLabels(plan.Labels, plan.Granularity, breaks)
	return axis
}

func (a *Applier) temporal(times []time.Time, dropped int) schema.Axis {
	profile := algo.ClassifyIntervals(times)
	plan := algo.SelectFormat(profile)
	axis := schema.Axis{
		Kind:    schema.TemporalInput,
		Profile: profile,
		Plan:    plan,
		Dropped: dropped,
	}
	a.noteDropped(&axis)

	if profile.Type == schema.InsufficientData {
		a.advise(&axis, schema.AdvisoryInsufficientData,
			fmt.Sprintf("%d observation(s) are not enough to infer a cadence", profile.ObservationCount))
	}
	if len(times) == 0 {
		axis.Breaks = schema.BreakSet{}
		return axis
	}

	lo, hi := bounds(times)
	breaks, ok := algo.CalculateBreaks(lo, hi, profile.Type, plan)
	if !ok {
		a.advise(&axis, schema.AdvisoryUnresolvableGranularity,
			fmt.Sprintf("no step for %s data, using pretty breaks", profile.Type))
		breaks = algo.PrettyTimeBreaks(lo, hi, plan.TargetBreaks)
	}
	axis.Breaks = breaks
	axis.Labels = algo.FormatLabels(plan.Labels, plan.Granularity, breaks)

	a.logger().Debug("temporal axis applied",
		zap.String("interval", string(profile.Type)),
		zap.Int("observations", profile.ObservationCount),
		zap.Stringer("granularity", plan.Granularity),
		zap.Int("breaks", len(breaks)),
	)
	return axis
}

func (a *Applier) numeric(numbers []float64, dropped int) schema.Axis {
	axis := schema.Axis{
		Kind:    schema.NumericInput,
		Profile: schema.IntervalProfile{Type: schema.InsufficientData, MedianGapDays: math.NaN()},
		Plan:    schema.FormatPlan{TargetBreaks: algo.DefaultNumericBreaks},
		Dropped: dropped,
	}
	a.noteDropped(&axis)
	if len(numbers) == 0 {
		a.advise(&axis, schema.AdvisoryInsufficientData, "no valid numeric values")
		return axis
	}

	lo, hi := slices.Min(numbers), slices.Max(numbers)
	axis.NumericBreaks = algo.PrettyBreaks(lo, hi, algo.DefaultNumericBreaks)
	axis.Labels = make([]string, len(axis.NumericBreaks))
	for i, v := range axis.NumericBreaks {
		axis.Labels[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	a.logger().Debug("numeric axis applied",
		zap.Float64("min", lo),
		zap.Float64("max", hi),
		zap.Int("breaks", len(axis.NumericBreaks)),
	)
	return axis
}

func (a *Applier) unsupported(kind string) schema.Axis {
	axis := schema.Axis{
		Kind:    schema.UnsupportedInput,
		Profile: schema.IntervalProfile{Type: schema.InsufficientData, MedianGapDays: math.NaN()},
	}
	a.advise(&axis, schema.AdvisoryUnsupportedInputKind, fmt.Sprintf("axis left unchanged for input of kind %s", kind))
	return axis
}

// inspect decides between temporal and numeric for loosely typed columns.
// Whichever kind more entries parse as wins; temporal wins ties.
func (a *Applier) inspect(values []any) (schema.Axis, bool) {
	var (
		times    []time.Time
		numbers  []float64
		unparsed int
	)
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		recognized := false
		if t, dropped := algo.Normalize([]any{v}); dropped == 0 {
			times = append(times, t[0])
			recognized = true
		}
		if n, ok := asNumber(v); ok {
			numbers = append(numbers, n)
			recognized = true
		}
		if !recognized {
			unparsed++
		}
	}

	switch {
	case len(times) == 0 && len(numbers) == 0 && unparsed > 0:
		return a.unsupported(fmt.Sprintf("%T", values)), false
	case len(times) >= len(numbers):
		return a.temporal(times, len(values)-len(times)), true
	default:
		return a.numeric(numbers, len(values)-len(numbers)), true
	}
}

func (a *Applier) noteDropped(axis *schema.Axis) {
	if axis.Dropped > 0 {
		a.advise(axis, schema.AdvisoryDroppedValues, fmt.Sprintf("%d missing or invalid value(s) dropped", axis.Dropped))
	}
}

func (a *Applier) advise(axis *schema.Axis, code schema.AdvisoryCode, msg string) {
	axis.Advisories = append(axis.Advisories, schema.Advisory{Code: code, Message: msg})
	log := a.logger()
	switch code {
	case schema.AdvisoryUnresolvableGranularity, schema.AdvisoryUnsupportedInputKind:
		log.Info(msg, zap.String("advisory", string(code)))
	default:
		log.Debug(msg, zap.String("advisory", string(code)))
	}
}

func bounds(times []time.Time) (lo, hi time.Time) {
	lo, hi = times[0], times[0]
	for _, t := range times[1:] {
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return lo, hi
}

func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return algo.IsMissingToken(x)
	case float64:
		return math.IsNaN(x)
	default:
		return false
	}
}

func asNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case string:
		return algo.ParseNumeric(x)
	case float64:
		return x, !math.IsInf(x, 0)
	case float32:
		f := float64(x)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func toFloats[T int | int64](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
