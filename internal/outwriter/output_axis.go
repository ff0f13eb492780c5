package outwriter

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/parquet"
	"github.com/johanreventlow/BFHcharts-sub001/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAxisResults outputs an axis, dispatching based on the output format configured.
func WriteAxisResults(result schema.AxisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return withOutput(cfg.OutputFile, "JSON axis", func(w io.Writer) error {
			return encodeJSON(w, result)
		})
	case schema.CSVOut:
		return withOutput(cfg.OutputFile, "CSV axis", func(w io.Writer) error {
			return writeAxisCSV(w, result.Axis)
		})
	case schema.ParquetOut:
		if err := parquet.WriteAxisTicksParquet(parquet.ConvertAxis(result.Axis), cfg.OutputFile); err != nil {
			return errors.Wrap(err, "error writing Parquet output")
		}
		return nil
	default:
		// Default to human-readable tables
		return withOutput(cfg.OutputFile, "axis table", func(w io.Writer) error {
			return writeAxisTable(result, cfg, decimalFormatter(cfg.Precision), duration, w)
		})
	}
}

// writeAxisTable writes the profile and plan summary, then one row per tick.
func writeAxisTable(result schema.AxisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	axis := result.Axis
	if _, err := fmt.Fprintf(writer, "Source: %s  Column: %s  Kind: %s\n", result.Source, result.Column, axis.Kind); err != nil {
		return err
	}

	summary := tablewriter.NewWriter(writer)
	summary.Header([]string{"Field", "Value"})
	if err := summary.Bulk(summaryRows(axis, fmtFloat)); err != nil {
		return err
	}
	if err := summary.Render(); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Break", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignRight, tw.AlignLeft, tw.AlignLeft}
	})
	labelWidth := GetMaxTableLabelWidth(cfg)
	var data [][]string
	for i := range axis.TickCount() {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			formatBreak(axis, i),
			contract.TruncateLabel(labelAt(axis, i), labelWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, adv := range axis.Advisories {
		if _, err := fmt.Fprintf(writer, "%s %s\n", contract.AdvisoryColor.Sprintf("[%s]", adv.Code), adv.Message); err != nil {
			return err
		}
	}

	if result.RunID > 0 {
		_, err := fmt.Fprintf(writer, "Axis built in %v. Recorded as run #%d (%s backend).\n", duration, result.RunID, cfg.HistoryBackend)
		return err
	}
	_, err := fmt.Fprintf(writer, "Axis built in %v.\n", duration)
	return err
}

// summaryRows lists the interval profile and format plan as field/value rows.
func summaryRows(axis schema.Axis, fmtFloat func(float64) string) [][]string {
	p := axis.Profile
	rows := [][]string{
		{"Observations", fmt.Sprintf("%d (dropped %d)", p.ObservationCount, axis.Dropped)},
	}
	if axis.IsTemporal() {
		rows = append(rows,
			[]string{"Interval", string(p.Type)},
			[]string{"Consistency", fmt.Sprintf("%s (%s)", fmtFloat(p.Consistency), contract.GetColorLabel(p.Consistency))},
			[]string{"Median gap", formatDays(p.MedianGapDays, fmtFloat)},
			[]string{"Timespan", formatDays(p.TimespanDays, fmtFloat)},
			[]string{"Labels", formatStrategy(axis.Plan.Labels)},
			[]string{"Granularity", axis.Plan.Granularity.String()},
		)
	}
	rows = append(rows, []string{"Target breaks", strconv.Itoa(axis.Plan.TargetBreaks)})
	return rows
}

// writeAxisCSV writes one record per tick.
func writeAxisCSV(w io.Writer, axis schema.Axis) error {
	ticks := parquet.ConvertAxis(axis)
	rows := make([][]string, 0, len(ticks))
	for _, tick := range ticks {
		ts := ""
		if tick.Time != nil {
			ts = tick.Time.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			strconv.Itoa(int(tick.Position)),
			tick.Kind,
			strconv.FormatFloat(tick.Value, 'f', -1, 64),
			ts,
			tick.Label,
		})
	}
	return writeCSVRecords(w, []string{"position", "kind", "value", "time", "label"}, rows)
}

// formatBreak renders tick i as a date, a timestamp when the axis has
// sub-day ticks, or a number.
func formatBreak(axis schema.Axis, i int) string {
	if axis.Kind == schema.NumericInput {
		return strconv.FormatFloat(axis.NumericBreaks[i], 'f', -1, 64)
	}
	layout := time.DateOnly
	for _, t := range axis.Breaks {
		if !t.Equal(t.Truncate(24 * time.Hour)) {
			layout = "2006-01-02 15:04"
			break
		}
	}
	return axis.Breaks[i].Format(layout)
}

func labelAt(axis schema.Axis, i int) string {
	if i < len(axis.Labels) {
		return axis.Labels[i]
	}
	return ""
}

func formatDays(days float64, fmtFloat func(float64) string) string {
	if math.IsNaN(days) {
		return "n/a"
	}
	return fmtFloat(days) + " days"
}

func formatStrategy(s schema.LabelStrategy) string {
	switch s.Mode {
	case schema.FixedLabels:
		return fmt.Sprintf("fixed %q", s.Pattern)
	case schema.AdaptiveLabels:
		return "adaptive " + string(s.Level)
	default:
		return "none"
	}
}
