package core

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekly(start time.Time, n int) []time.Time {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = start.AddDate(0, 0, 7*i)
	}
	return times
}

func assertTemporalAxis(t *testing.T, axis schema.Axis, lo time.Time) {
	t.Helper()
	assert.Equal(t, schema.TemporalInput, axis.Kind)
	require.NotEmpty(t, axis.Breaks)
	assert.True(t, axis.Breaks[0].Equal(lo), "first break %s, want %s", axis.Breaks[0], lo)
	for i := 1; i < len(axis.Breaks); i++ {
		assert.True(t, axis.Breaks[i].After(axis.Breaks[i-1]), "break %d not increasing", i)
	}
	assert.Len(t, axis.Labels, len(axis.Breaks))
}

func TestApplyAxisWeekly(t *testing.T) {
	times := weekly(day(2024, time.January, 1), 20)

	axis, ok := ApplyAxis(times)
	require.True(t, ok)
	assertTemporalAxis(t, axis, times[0])
	assert.Equal(t, schema.Weekly, axis.Profile.Type)
	assert.Equal(t, schema.AdaptiveLabels, axis.Plan.Labels.Mode)
	assert.Equal(t, day(2024, time.January, 15), axis.Breaks[1])
	assert.Equal(t, "01. jan 2024", axis.Labels[0])
	assert.Empty(t, axis.Advisories)
}

func TestApplyAxisLabelsDistinct(t *testing.T) {
	monthly := make([]time.Time, 48)
	for i := range monthly {
		monthly[i] = day(2020, time.January, 1).AddDate(0, i, 0)
	}

	tests := []struct {
		name  string
		times []time.Time
		first string
	}{
		{"52 weekly dates", weekly(day(2024, time.January, 1), 52), "01. jan 2024"},
		{"48 monthly dates", monthly, "jan 2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, ok := ApplyAxis(tt.times)
			require.True(t, ok)
			assertTemporalAxis(t, axis, tt.times[0])
			assert.Equal(t, tt.first, axis.Labels[0])
			seen := make(map[string]bool, len(axis.Labels))
			for i, l := range axis.Labels {
				if i > 0 {
					assert.NotEqual(t, axis.Labels[i-1], l, "neighbouring labels in %v", axis.Labels)
				}
				key := strconv.Itoa(axis.Breaks[i].Year()) + "/" + l
				assert.False(t, seen[key], "label %q repeated within a year in %v", l, axis.Labels)
				seen[key] = true
			}
		})
	}
}

func TestApplyAxisInputKindsAgree(t *testing.T) {
	start := day(2024, time.January, 1)
	times := make([]time.Time, 12)
	dates := make([]civil.Date, 12)
	strs := make([]string, 12)
	for i := range times {
		times[i] = start.AddDate(0, i, 0)
		dates[i] = civil.DateOf(times[i])
		strs[i] = times[i].Format(time.DateOnly)
	}

	fromTimes, ok := ApplyAxis(times)
	require.True(t, ok)
	fromDates, ok := ApplyAxis(dates)
	require.True(t, ok)
	fromStrings, ok := ApplyAxis(strs)
	require.True(t, ok)

	assert.Equal(t, schema.Monthly, fromTimes.Profile.Type)
	assert.Equal(t, fromTimes.Breaks, fromDates.Breaks)
	assert.Equal(t, fromTimes.Breaks, fromStrings.Breaks)
	assert.Equal(t, fromTimes.Labels, fromStrings.Labels)
}

func TestApplyAxisDropsMissing(t *testing.T) {
	a, b := day(2024, time.March, 1), day(2024, time.March, 2)
	axis, ok := ApplyAxis([]*time.Time{&a, nil, &b})
	require.True(t, ok)
	assert.Equal(t, 1, axis.Dropped)
	assert.True(t, axis.HasAdvisory(schema.AdvisoryDroppedValues))
	assertTemporalAxis(t, axis, a)
}

func TestApplyAxisNumeric(t *testing.T) {
	tests := []struct {
		name     string
		values   any
		breaks   []float64
		labels   []string
		dropped  int
		advisory schema.AdvisoryCode
	}{
		{
			name:   "floats",
			values: []float64{0, 3.5, 10},
			breaks: []float64{0, 2, 4, 6, 8, 10},
			labels: []string{"0", "2", "4", "6", "8", "10"},
		},
		{
			name:   "ints",
			values: []int{10, 0},
			breaks: []float64{0, 2, 4, 6, 8, 10},
			labels: []string{"0", "2", "4", "6", "8", "10"},
		},
		{
			name:     "strings with decimal comma",
			values:   []string{"0", "NA", "2,5", "10"},
			breaks:   []float64{0, 2, 4, 6, 8, 10},
			labels:   []string{"0", "2", "4", "6", "8", "10"},
			dropped:  1,
			advisory: schema.AdvisoryDroppedValues,
		},
		{
			name:     "empty",
			values:   []int64{},
			advisory: schema.AdvisoryInsufficientData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, ok := ApplyAxis(tt.values)
			require.True(t, ok)
			assert.Equal(t, schema.NumericInput, axis.Kind)
			assert.Equal(t, tt.breaks, axis.NumericBreaks)
			assert.Equal(t, tt.labels, axis.Labels)
			assert.Equal(t, tt.dropped, axis.Dropped)
			assert.Empty(t, axis.Breaks)
			if tt.advisory != "" {
				assert.True(t, axis.HasAdvisory(tt.advisory))
			}
		})
	}
}

func TestApplyAxisMixedStrings(t *testing.T) {
	axis, ok := ApplyAxis([]string{"2024-01-01", "NA", "garbage", "2024-01-02", "2024-01-03", "7"})
	require.True(t, ok)
	assertTemporalAxis(t, axis, day(2024, time.January, 1))
	assert.Equal(t, 3, axis.Dropped)
	assert.Equal(t, 3, axis.Profile.ObservationCount)
}

func TestApplyAxisUnsupported(t *testing.T) {
	for _, values := range []any{
		[]bool{true, false},
		map[string]int{"a": 1},
		42,
		nil,
		[]string{"foo", "bar"},
	} {
		axis, ok := ApplyAxis(values)
		assert.False(t, ok, "%T", values)
		assert.Equal(t, schema.UnsupportedInput, axis.Kind)
		assert.True(t, axis.HasAdvisory(schema.AdvisoryUnsupportedInputKind))
		assert.Empty(t, axis.Breaks)
		assert.Empty(t, axis.NumericBreaks)
		assert.Empty(t, axis.Labels)
	}
}

func TestApplyAxisEmptyTemporal(t *testing.T) {
	for _, values := range []any{[]time.Time{}, []civil.Date{}, []string{"NA", ""}} {
		axis, ok := ApplyAxis(values)
		require.True(t, ok, "%T", values)
		assert.Equal(t, schema.TemporalInput, axis.Kind)
		assert.NotNil(t, axis.Breaks)
		assert.Empty(t, axis.Breaks)
		assert.Equal(t, schema.InsufficientData, axis.Profile.Type)
		assert.True(t, axis.HasAdvisory(schema.AdvisoryInsufficientData))
	}
}

func TestApplyAxisSinglePoint(t *testing.T) {
	only := day(2024, time.March, 15)
	axis, ok := ApplyAxis([]time.Time{only})
	require.True(t, ok)
	assertTemporalAxis(t, axis, only)
	assert.True(t, axis.HasAdvisory(schema.AdvisoryInsufficientData))
	assert.False(t, axis.HasAdvisory(schema.AdvisoryUnresolvableGranularity))
}

func TestApplyAxisIdenticalInstants(t *testing.T) {
	same := day(2024, time.March, 15)
	axis, ok := ApplyAxis([]time.Time{same, same, same})
	require.True(t, ok)
	assert.Equal(t, 3, axis.Profile.ObservationCount)
	require.True(t, axis.HasAdvisory(schema.AdvisoryInsufficientData))
	assert.Equal(t, "3 observation(s) are not enough to infer a cadence", axis.Advisories[0].Message)
}

func TestApplyTemporalPlan(t *testing.T) {
	times := []time.Time{day(2024, time.February, 10), day(2024, time.June, 1), day(2024, time.November, 20)}

	t.Run("explicit granularity", func(t *testing.T) {
		plan := schema.FormatPlan{
			Labels:       schema.LabelStrategy{Mode: schema.FixedLabels, Pattern: "K%q %Y"},
			Granularity:  schema.Granularity{Count: 3, Unit: schema.UnitMonth},
			TargetBreaks: 4,
		}
		axis := ApplyTemporalPlan(times, plan)
		assertTemporalAxis(t, axis, times[0])
		assert.Equal(t, plan, axis.Plan)
		assert.Equal(t, day(2024, time.April, 1), axis.Breaks[1])
		assert.Equal(t, "K2 2024", axis.Labels[1])
		assert.Empty(t, axis.Advisories)
	})

	t.Run("no granularity", func(t *testing.T) {
		plan := schema.FormatPlan{
			Labels: schema.LabelStrategy{Mode: schema.AdaptiveLabels, Level: schema.LevelMonthYear},
		}
		axis := ApplyTemporalPlan(times, plan)
		assertTemporalAxis(t, axis, times[0])
		assert.True(t, axis.HasAdvisory(schema.AdvisoryUnresolvableGranularity))
	})

	t.Run("empty", func(t *testing.T) {
		axis := ApplyTemporalPlan(nil, schema.FormatPlan{})
		assert.Empty(t, axis.Breaks)
		assert.True(t, axis.HasAdvisory(schema.AdvisoryInsufficientData))
	})
}

func TestApplierLogsAdvisories(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	applier := NewApplier(WithLogger(zap.New(core)))

	_, ok := applier.Apply([]bool{true})
	require.False(t, ok)

	entries := logs.FilterField(zap.String("advisory", string(schema.AdvisoryUnsupportedInputKind))).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestApplierConcurrentUse(t *testing.T) {
	applier := NewApplier(WithLogger(zap.NewNop()))
	times := weekly(day(2023, time.June, 5), 60)
	want, ok := applier.Apply(times)
	require.True(t, ok)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			got, ok := applier.Apply(times)
			assert.True(t, ok)
			assert.Equal(t, want.Breaks, got.Breaks)
			assert.Equal(t, want.Labels, got.Labels)
		})
	}
	wg.Wait()
}

func BenchmarkApplyAxis(b *testing.B) {
	times := weekly(day(2020, time.January, 6), 200)
	for b.Loop() {
		ApplyAxis(times)
	}
}
