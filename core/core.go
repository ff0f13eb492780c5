// Package core turns raw series into chart axes and runs the CLI operations on top of that.
package core

import (
	"context"
	"math"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/core/algo"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/logger"
	"github.com/johanreventlow/BFHcharts-sub001/internal/outwriter"
	"github.com/johanreventlow/BFHcharts-sub001/internal/render"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// ExecuteAxis loads the time column, builds its axis and prints it.
// It serves as the main entry point for the 'axis' command.
func ExecuteAxis(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	table, err := LoadTable(ctx, cfg)
	if err != nil {
		return err
	}
	values, err := table.Column(cfg.Column)
	if err != nil {
		return err
	}

	axis, err := BuildAxis(values, cfg)
	if err != nil {
		return err
	}

	if cfg.Record {
		runID, err := RecordAxis(ctx, mgr, table.Source, axis, start)
		if err != nil {
			return err
		}
		ctx = withRunID(ctx, runID)
	}

	result := schema.AxisResult{
		Source: table.Source,
		Column: table.ColumnName(cfg.Column),
		Axis:   axis,
	}
	result.RunID, _ = getRunID(ctx)
	return outwriter.NewOutWriter().WriteAxis(result, cfg, time.Since(start))
}

// ExecutePreview renders the value column against the axis of the time column.
// It serves as the main entry point for the 'preview' command.
func ExecutePreview(ctx context.Context, cfg *contract.Config) error {
	table, err := LoadTable(ctx, cfg)
	if err != nil {
		return err
	}
	xs, err := table.Column(cfg.Column)
	if err != nil {
		return err
	}
	ys, err := table.Column(cfg.ValueColumn)
	if err != nil {
		return err
	}

	// Keep rows whose value is numeric; the axis is built from those rows only.
	var pairedX []string
	var pairedY []float64
	for i := range xs {
		y, ok := algo.ParseNumeric(ys[i])
		if !ok || algo.IsMissingToken(xs[i]) {
			continue
		}
		pairedX = append(pairedX, xs[i])
		pairedY = append(pairedY, y)
	}

	axis, err := BuildAxis(pairedX, cfg)
	if err != nil {
		return err
	}
	series := previewSeries(axis, pairedX, pairedY)
	series.Name = table.ColumnName(cfg.ValueColumn)
	logger.Logger.Debugw("preview series built",
		"source", table.Source,
		"points", len(series.Y),
		"ticks", axis.TickCount(),
	)

	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}
	return render.Render(file, axis, series, render.Options{
		Format: cfg.PreviewFormat,
		Width:  cfg.ChartWidth,
		Height: cfg.ChartHeight,
		Title:  cfg.Title,
	})
}

// BuildAxis applies the axis engine to a column of raw cells. An explicit
// break spec in cfg replaces the adaptive plan on temporal columns.
func BuildAxis(values []string, cfg *contract.Config) (schema.Axis, error) {
	axis, ok := ApplyAxis(values)
	if !ok {
		return axis, errors.WithHint(
			errors.New("the selected column holds neither dates nor numbers"),
			"choose another column with --column")
	}
	if !cfg.HasExplicitPlan() {
		return axis, nil
	}
	if !axis.IsTemporal() {
		logger.Logger.Warnw("break spec ignored for a non-temporal column", "kind", axis.Kind)
		return axis, nil
	}

	times, dropped := algo.Normalize(toAny(values))
	return defaultApplier.applyPlan(times, explicitPlan(axis.Plan, cfg), dropped), nil
}

// explicitPlan overlays the break spec on the adaptive plan. A target without
// a granularity asks for pretty breaks, so the adaptive step is cleared.
func explicitPlan(adaptive schema.FormatPlan, cfg *contract.Config) schema.FormatPlan {
	plan := adaptive
	switch {
	case !cfg.Granularity.IsZero():
		plan.Granularity = cfg.Granularity
	case cfg.TargetBreaks > 0:
		plan.Granularity = schema.Granularity{}
	}
	if cfg.TargetBreaks > 0 {
		plan.TargetBreaks = cfg.TargetBreaks
	}
	if cfg.LabelFormat != "" {
		plan.Labels = schema.LabelStrategy{Mode: schema.FixedLabels, Pattern: cfg.LabelFormat}
	}
	return plan
}

// previewSeries converts the paired cells to chart coordinates of the axis kind.
func previewSeries(axis schema.Axis, xs []string, ys []float64) render.Series {
	var s render.Series
	for i, cell := range xs {
		switch axis.Kind {
		case schema.TemporalInput:
			t, ok := algo.ParseTemporal(cell)
			if !ok {
				continue
			}
			s.Times = append(s.Times, t)
		case schema.NumericInput:
			x, ok := algo.ParseNumeric(cell)
			if !ok {
				continue
			}
			s.X = append(s.X, x)
		default:
			continue
		}
		s.Y = append(s.Y, ys[i])
	}
	return s
}

// RecordAxis stores the axis in run history and returns the new run ID.
func RecordAxis(ctx context.Context, mgr contract.HistoryManager, source string, axis schema.Axis, at time.Time) (int64, error) {
	var store contract.HistoryStore
	if mgr != nil {
		store = mgr.GetHistoryStore()
	}
	if store == nil {
		return 0, errors.WithHint(errors.New("run history is not initialized"),
			"set --history-backend to sqlite, mysql or postgresql")
	}
	run, breaks := RunRecords(source, axis, at)
	runID, err := store.RecordRun(ctx, run, breaks)
	if err != nil {
		return 0, errors.Wrap(err, "failed to record axis run")
	}
	logger.Logger.Debugw("axis run recorded", "run_id", runID, "breaks", len(breaks))
	return runID, nil
}

// RunRecords converts an axis into the rows stored in run history. Temporal
// break values are unix seconds.
func RunRecords(source string, axis schema.Axis, at time.Time) (schema.AxisRunRecord, []schema.AxisBreakRecord) {
	p := axis.Profile
	run := schema.AxisRunRecord{
		RunTime:          at.UTC(),
		Source:           source,
		Kind:             axis.Kind,
		IntervalType:     p.Type,
		Consistency:      finite(p.Consistency),
		TimespanDays:     finite(p.TimespanDays),
		ObservationCount: int32(p.ObservationCount),
		DroppedCount:     int32(axis.Dropped),
		LabelMode:        axis.Plan.Labels.Mode,
		Granularity:      axis.Plan.Granularity.String(),
		TargetBreaks:     int32(axis.Plan.TargetBreaks),
		BreakCount:       int32(axis.TickCount()),
	}
	if !math.IsNaN(p.MedianGapDays) {
		gap := p.MedianGapDays
		run.MedianGapDays = &gap
	}

	breaks := make([]schema.AxisBreakRecord, 0, axis.TickCount())
	label := func(i int) string {
		if i < len(axis.Labels) {
			return axis.Labels[i]
		}
		return ""
	}
	if axis.Kind == schema.NumericInput {
		for i, v := range axis.NumericBreaks {
			breaks = append(breaks, schema.AxisBreakRecord{Position: int32(i), Value: v, Label: label(i)})
		}
	} else {
		for i, t := range axis.Breaks {
			breaks = append(breaks, schema.AxisBreakRecord{Position: int32(i), Value: float64(t.Unix()), Label: label(i)})
		}
	}
	return run, breaks
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
