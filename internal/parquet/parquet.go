// Package parquet provides data structures and functions for exporting axes
// and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/parquet-go/parquet-go"
)

// AxisRun represents a single recorded axis run.
// This struct maps to the bfhaxis_axis_runs database table.
type AxisRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunTime is when the axis was computed (stored as TIMESTAMP with nanosecond precision)
	RunTime time.Time `parquet:"run_time,snappy"`

	// Source names the input file, or "stdin"
	Source string `parquet:"source,snappy"`

	Kind         string `parquet:"kind,snappy"`
	IntervalType string `parquet:"interval_type,snappy"`

	// MedianGapDays is null when fewer than two distinct instants were seen
	MedianGapDays *float64 `parquet:"median_gap_days,optional,snappy"`

	Consistency      float64 `parquet:"consistency,snappy"`
	TimespanDays     float64 `parquet:"timespan_days,snappy"`
	ObservationCount int32   `parquet:"observation_count,snappy"`
	DroppedCount     int32   `parquet:"dropped_count,snappy"`
	LabelMode        string  `parquet:"label_mode,snappy"`
	Granularity      string  `parquet:"granularity,snappy"`
	TargetBreaks     int32   `parquet:"target_breaks,snappy"`
	BreakCount       int32   `parquet:"break_count,snappy"`
}

// AxisBreak represents one tick of a recorded run.
// This struct maps to the bfhaxis_axis_breaks database table.
type AxisBreak struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	Position int32 `parquet:"position,snappy"`

	// Value is unix seconds for temporal axes, the tick itself for numeric axes
	Value float64 `parquet:"value,snappy"`

	Label string `parquet:"label,snappy"`
}

// AxisTick is one row of a computed axis written with --output parquet.
type AxisTick struct {
	Position int32      `parquet:"position,snappy"`
	Kind     string     `parquet:"kind,snappy"`
	Value    float64    `parquet:"value,snappy"`
	Time     *time.Time `parquet:"time,optional,snappy"` // null on numeric axes
	Label    string     `parquet:"label,snappy"`
}

// WriteAxisRunsParquet writes a slice of AxisRun structs to a Parquet file.
func WriteAxisRunsParquet(data []AxisRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAxisBreaksParquet writes a slice of AxisBreak structs to a Parquet file.
func WriteAxisBreaksParquet(data []AxisBreak, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteAxisTicksParquet writes a slice of AxisTick structs to a Parquet file.
func WriteAxisTicksParquet(data []AxisTick, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows whose schema is derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return errors.Wrap(err, "failed to write data to parquet file")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "failed to finalize parquet file")
	}
	return nil
}

// ConvertAxisRunRecords converts schema.AxisRunRecord to AxisRun for Parquet export.
func ConvertAxisRunRecords(records []schema.AxisRunRecord) []AxisRun {
	result := make([]AxisRun, len(records))
	for i, record := range records {
		result[i] = AxisRun{
			RunID:            record.RunID,
			RunTime:          record.RunTime,
			Source:           record.Source,
			Kind:             string(record.Kind),
			IntervalType:     string(record.IntervalType),
			MedianGapDays:    record.MedianGapDays,
			Consistency:      record.Consistency,
			TimespanDays:     record.TimespanDays,
			ObservationCount: record.ObservationCount,
			DroppedCount:     record.DroppedCount,
			LabelMode:        string(record.LabelMode),
			Granularity:      record.Granularity,
			TargetBreaks:     record.TargetBreaks,
			BreakCount:       record.BreakCount,
		}
	}
	return result
}

// ConvertAxisBreakRecords converts schema.AxisBreakRecord to AxisBreak for Parquet export.
func ConvertAxisBreakRecords(records []schema.AxisBreakRecord) []AxisBreak {
	result := make([]AxisBreak, len(records))
	for i, record := range records {
		result[i] = AxisBreak{
			RunID:    record.RunID,
			Position: record.Position,
			Value:    record.Value,
			Label:    record.Label,
		}
	}
	return result
}

// ConvertAxis flattens an axis into one row per tick.
func ConvertAxis(axis schema.Axis) []AxisTick {
	label := func(i int) string {
		if i < len(axis.Labels) {
			return axis.Labels[i]
		}
		return ""
	}

	if axis.Kind == schema.NumericInput {
		result := make([]AxisTick, len(axis.NumericBreaks))
		for i, v := range axis.NumericBreaks {
			result[i] = AxisTick{Position: int32(i), Kind: string(axis.Kind), Value: v, Label: label(i)}
		}
		return result
	}

	result := make([]AxisTick, len(axis.Breaks))
	for i, t := range axis.Breaks {
		tick := t
		result[i] = AxisTick{
			Position: int32(i),
			Kind:     string(axis.Kind),
			Value:    float64(t.Unix()),
			Time:     &tick,
			Label:    label(i),
		}
	}
	return result
}
