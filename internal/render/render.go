// Package render draws a preview chart of a series against a computed axis.
package render

import (
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// MinPoints is the smallest series a preview can draw.
const MinPoints = 2

// Series is the data drawn against an axis. Times is set for temporal axes,
// X for numeric ones; Y is parallel to whichever is set.
type Series struct {
	Name  string
	Times []time.Time
	X     []float64
	Y     []float64
}

// Options controls the rendered output.
type Options struct {
	Format schema.PreviewFormat
	Width  int // pixels; text previews scale it down to columns
	Height int
	Title  string
}

// Render writes the preview in the requested format.
func Render(w io.Writer, axis schema.Axis, s Series, opts Options) error {
	xs, err := coordinates(axis, s)
	if err != nil {
		return err
	}
	if len(xs) < MinPoints {
		return errors.WithHint(
			errors.Newf("a preview needs at least %d points, got %d", MinPoints, len(xs)),
			"check that --value-column selects a numeric column")
	}

	switch opts.Format {
	case schema.TextPreview:
		return renderText(w, axis, xs, s.Y, opts)
	case schema.SVGPreview:
		return renderChart(w, chart.SVG, axis, s, opts)
	default:
		return renderChart(w, chart.PNG, axis, s, opts)
	}
}

// Ticks converts the axis breaks to chart ticks. Temporal values use the
// go-chart time encoding so they line up with a TimeSeries.
func Ticks(axis schema.Axis) []chart.Tick {
	label := func(i int) string {
		if i < len(axis.Labels) {
			return axis.Labels[i]
		}
		return ""
	}
	var ticks []chart.Tick
	switch axis.Kind {
	case schema.TemporalInput:
		for i, t := range axis.Breaks {
			ticks = append(ticks, chart.Tick{Value: chart.TimeToFloat64(t), Label: label(i)})
		}
	case schema.NumericInput:
		for i, v := range axis.NumericBreaks {
			ticks = append(ticks, chart.Tick{Value: v, Label: label(i)})
		}
	}
	return ticks
}

// coordinates returns the x values of s in tick space, checking they match Y.
func coordinates(axis schema.Axis, s Series) ([]float64, error) {
	var xs []float64
	switch axis.Kind {
	case schema.TemporalInput:
		xs = make([]float64, len(s.Times))
		for i, t := range s.Times {
			xs[i] = chart.TimeToFloat64(t)
		}
	case schema.NumericInput:
		xs = s.X
	default:
		return nil, errors.Newf("cannot preview a %s axis", axis.Kind)
	}
	if len(xs) != len(s.Y) {
		return nil, errors.Newf("series has %d x values but %d y values", len(xs), len(s.Y))
	}
	return xs, nil
}

func renderChart(w io.Writer, rp chart.RendererProvider, axis schema.Axis, s Series, opts Options) error {
	ch := buildChart(axis, s, opts)
	if err := ch.Render(rp, w); err != nil {
		return errors.Wrap(err, "failed to render chart")
	}
	return nil
}

func buildChart(axis schema.Axis, s Series, opts Options) chart.Chart {
	style := chart.Style{
		StrokeColor: drawing.ColorFromHex("00508c"),
		StrokeWidth: 2,
		DotColor:    drawing.ColorFromHex("00508c"),
		DotWidth:    3,
	}

	var series chart.Series
	if axis.Kind == schema.TemporalInput {
		times, ys := sortedTimes(s.Times, s.Y)
		series = chart.TimeSeries{Name: s.Name, XValues: times, YValues: ys, Style: style}
	} else {
		xs, ys := sortedPairs(s.X, s.Y)
		series = chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style}
	}

	xs, _ := coordinates(axis, s)
	ticks := Ticks(axis)
	xAxis := chart.XAxis{Ticks: ticks}
	if len(ticks) > 0 {
		lo := math.Min(ticks[0].Value, slices.Min(xs))
		hi := math.Max(ticks[len(ticks)-1].Value, slices.Max(xs))
		xAxis.Range = &chart.ContinuousRange{Min: lo, Max: hi}
	}

	return chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 24, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      chart.YAxis{Name: s.Name},
		Series:     []chart.Series{series},
	}
}

// renderText draws an ASCII line resampled evenly over the x range, followed
// by the tick labels.
func renderText(w io.Writer, axis schema.Axis, xs, ys []float64, opts Options) error {
	cols := clamp(opts.Width/12, 20, 120)
	rows := clamp(opts.Height/32, 5, 40)

	xs, ys = sortedPairs(xs, ys)
	graph := asciigraph.Plot(resample(xs, ys, cols),
		asciigraph.Height(rows),
		asciigraph.Width(cols),
		asciigraph.Caption(opts.Title),
	)
	if _, err := fmt.Fprintln(w, graph); err != nil {
		return err
	}

	labels := make([]string, 0, axis.TickCount())
	for _, tick := range Ticks(axis) {
		labels = append(labels, tick.Label)
	}
	_, err := fmt.Fprintf(w, "Ticks: %s\n", strings.Join(labels, " | "))
	return err
}

// resample linearly interpolates ys at n evenly spaced positions over the x range.
func resample(xs, ys []float64, n int) []float64 {
	lo, hi := xs[0], xs[len(xs)-1]
	if hi == lo {
		return slices.Clone(ys)
	}
	out := make([]float64, n)
	j := 0
	for i := range n {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		for j < len(xs)-2 && xs[j+1] < x {
			j++
		}
		x0, x1 := xs[j], xs[j+1]
		if x1 == x0 {
			out[i] = ys[j+1]
			continue
		}
		f := math.Max(0, math.Min(1, (x-x0)/(x1-x0)))
		out[i] = ys[j] + f*(ys[j+1]-ys[j])
	}
	return out
}

func sortedPairs(xs, ys []float64) ([]float64, []float64) {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	sx, sy := make([]float64, len(xs)), make([]float64, len(ys))
	for i, k := range idx {
		sx[i], sy[i] = xs[k], ys[k]
	}
	return sx, sy
}

func sortedTimes(times []time.Time, ys []float64) ([]time.Time, []float64) {
	idx := make([]int, len(times))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return times[idx[a]].Before(times[idx[b]]) })
	st, sy := make([]time.Time, len(times)), make([]float64, len(ys))
	for i, k := range idx {
		st[i], sy[i] = times[k], ys[k]
	}
	return st, sy
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
