package outwriter

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyResult() schema.AxisResult {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return schema.AxisResult{
		Source: "infections.csv",
		Column: "dato",
		Axis: schema.Axis{
			Kind: schema.TemporalInput,
			Profile: schema.IntervalProfile{
				Type:             schema.Weekly,
				MedianGapDays:    7,
				Consistency:      1,
				TimespanDays:     133,
				ObservationCount: 20,
			},
			Plan: schema.FormatPlan{
				Labels:       schema.LabelStrategy{Mode: schema.AdaptiveLabels, Level: schema.LevelShort},
				Granularity:  schema.Granularity{Count: 1, Unit: schema.UnitWeek},
				TargetBreaks: 20,
			},
			Breaks: schema.BreakSet{jan, jan.AddDate(0, 0, 14)},
			Labels: []string{"01. jan 2024", "15. jan"},
		},
	}
}

func numericResult() schema.AxisResult {
	return schema.AxisResult{
		Source: "stdin",
		Column: "2",
		Axis: schema.Axis{
			Kind:          schema.NumericInput,
			Profile:       schema.IntervalProfile{Type: schema.InsufficientData, MedianGapDays: math.NaN(), ObservationCount: 11},
			Plan:          schema.FormatPlan{TargetBreaks: 8},
			NumericBreaks: []float64{0, 2.5, 5},
			Labels:        []string{"0", "2.5", "5"},
		},
	}
}

func TestWriteAxisTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 120, HistoryBackend: schema.SQLiteBackend}
	fmtFloat := decimalFormatter(cfg.Precision)

	t.Run("temporal with run", func(t *testing.T) {
		result := weeklyResult()
		result.RunID = 7
		result.Advisories = []schema.Advisory{{Code: schema.AdvisoryDroppedValues, Message: "2 values dropped"}}

		var buf bytes.Buffer
		require.NoError(t, writeAxisTable(result, cfg, fmtFloat, time.Millisecond, &buf))
		out := buf.String()
		for _, want := range []string{
			"Source: infections.csv  Column: dato  Kind: temporal",
			"weekly", "1.00", "Regular", "7.00 days", "133.00 days",
			"adaptive short", "1 week",
			"2024-01-01", "2024-01-15", "01. jan 2024", "15. jan",
			"[dropped_values] 2 values dropped",
			"Recorded as run #7 (sqlite backend)",
		} {
			assert.Contains(t, out, want)
		}
	})

	t.Run("numeric", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeAxisTable(numericResult(), cfg, fmtFloat, time.Millisecond, &buf))
		out := buf.String()
		assert.Contains(t, out, "2.5")
		assert.Contains(t, out, "11 (dropped 0)")
		assert.NotContains(t, out, "Interval")
		assert.NotContains(t, out, "Recorded as run")
	})
}

func TestWriteAxisCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeAxisCSV(&buf, weeklyResult().Axis))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "position,kind,value,time,label", lines[0])
	assert.Equal(t, "0,temporal,1704067200,2024-01-01T00:00:00Z,01. jan 2024", lines[1])

	buf.Reset()
	require.NoError(t, writeAxisCSV(&buf, numericResult().Axis))
	assert.Contains(t, buf.String(), "1,numeric,2.5,,2.5")
}

func TestWriteAxisResultsToFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "axis.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, WriteAxisResults(numericResult(), cfg, 0))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(content, &decoded))
		assert.Equal(t, "stdin", decoded["source"])
		assert.Equal(t, "numeric", decoded["kind"])
		profile := decoded["profile"].(map[string]any)
		assert.Nil(t, profile["median_gap_days"], "NaN median gap is written as null")
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "axis.csv")
		cfg := &contract.Config{Output: schema.CSVOut, OutputFile: path}
		require.NoError(t, WriteAxisResults(weeklyResult(), cfg, 0))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "position,kind,value,time,label\n"))
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(dir, "axis.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
		require.NoError(t, WriteAxisResults(weeklyResult(), cfg, 0))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(dir, "axis.txt")
		cfg := &contract.Config{Output: schema.TextOut, OutputFile: path, Precision: 1}
		require.NoError(t, WriteAxisResults(weeklyResult(), cfg, 0))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "7.0 days")
	})
}

func TestFormatBreak(t *testing.T) {
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	daily := schema.Axis{Kind: schema.TemporalInput, Breaks: schema.BreakSet{day, day.AddDate(0, 0, 1)}}
	assert.Equal(t, "2024-03-05", formatBreak(daily, 1))

	hourly := schema.Axis{Kind: schema.TemporalInput, Breaks: schema.BreakSet{day, day.Add(6 * time.Hour)}}
	assert.Equal(t, "2024-03-04 00:00", formatBreak(hourly, 0))
	assert.Equal(t, "2024-03-04 06:00", formatBreak(hourly, 1))

	assert.Equal(t, "0.25", formatBreak(schema.Axis{Kind: schema.NumericInput, NumericBreaks: []float64{0.25}}, 0))
}

func TestFormatHelpers(t *testing.T) {
	fmtFloat := decimalFormatter(1)
	assert.Equal(t, "n/a", formatDays(math.NaN(), fmtFloat))
	assert.Equal(t, "30.4 days", formatDays(30.44, fmtFloat))

	assert.Equal(t, `fixed "%b %Y"`, formatStrategy(schema.LabelStrategy{Mode: schema.FixedLabels, Pattern: "%b %Y"}))
	assert.Equal(t, "adaptive year", formatStrategy(schema.LabelStrategy{Mode: schema.AdaptiveLabels, Level: schema.LevelYear}))
	assert.Equal(t, "none", formatStrategy(schema.LabelStrategy{}))

	assert.Equal(t, "", labelAt(schema.Axis{}, 3))
}

func TestGetMaxTableLabelWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{width: 200, want: 60},
		{width: 80, want: 38},
		{width: 30, want: 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetMaxTableLabelWidth(&contract.Config{Width: tt.width}))
	}
}

func TestOutWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axis.json")
	ow := NewOutWriter()
	require.NoError(t, ow.WriteAxis(weeklyResult(), &contract.Config{Output: schema.JSONOut, OutputFile: path}, 0))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
