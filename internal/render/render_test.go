package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
)

func monthlyFixture() (schema.Axis, Series) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	axis := schema.Axis{Kind: schema.TemporalInput}
	var s Series
	for i := range 6 {
		axis.Breaks = append(axis.Breaks, jan.AddDate(0, i, 0))
		axis.Labels = append(axis.Labels, []string{"jan 2024", "feb", "mar", "apr", "maj", "jun"}[i])
		s.Times = append(s.Times, jan.AddDate(0, i, 0))
		s.Y = append(s.Y, float64(10+i%3))
	}
	s.Name = "infektioner"
	return axis, s
}

func TestTicks(t *testing.T) {
	axis, _ := monthlyFixture()
	ticks := Ticks(axis)
	require.Len(t, ticks, 6)
	assert.Equal(t, chart.TimeToFloat64(axis.Breaks[2]), ticks[2].Value)
	assert.Equal(t, "mar", ticks[2].Label)

	numeric := schema.Axis{Kind: schema.NumericInput, NumericBreaks: []float64{0, 5}, Labels: []string{"0"}}
	ticks = Ticks(numeric)
	require.Len(t, ticks, 2)
	assert.Equal(t, 5.0, ticks[1].Value)
	assert.Empty(t, ticks[1].Label)

	assert.Empty(t, Ticks(schema.Axis{Kind: schema.UnsupportedInput}))
}

func TestRenderFormats(t *testing.T) {
	axis, s := monthlyFixture()
	tests := []struct {
		format schema.PreviewFormat
		check  func(t *testing.T, out []byte)
	}{
		{schema.PNGPreview, func(t *testing.T, out []byte) {
			assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")), "expected a PNG signature")
		}},
		{schema.SVGPreview, func(t *testing.T, out []byte) {
			assert.Contains(t, string(out), "<svg")
			assert.Contains(t, string(out), "maj")
		}},
		{schema.TextPreview, func(t *testing.T, out []byte) {
			assert.Contains(t, string(out), "Ticks: jan 2024 | feb | mar | apr | maj | jun")
			assert.Contains(t, string(out), "Infektioner pr. måned")
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			err := Render(&buf, axis, s, Options{Format: tt.format, Width: 640, Height: 320, Title: "Infektioner pr. måned"})
			require.NoError(t, err)
			tt.check(t, buf.Bytes())
		})
	}
}

func TestRenderNumericAxis(t *testing.T) {
	axis := schema.Axis{
		Kind:          schema.NumericInput,
		NumericBreaks: []float64{0, 2, 4, 6},
		Labels:        []string{"0", "2", "4", "6"},
	}
	s := Series{X: []float64{5, 1, 3}, Y: []float64{2, 4, 8}}
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, axis, s, Options{Format: schema.SVGPreview, Width: 320, Height: 200}))
	assert.Contains(t, buf.String(), "<svg")
}

func TestRenderErrors(t *testing.T) {
	axis, s := monthlyFixture()

	t.Run("too few points", func(t *testing.T) {
		one := Series{Times: s.Times[:1], Y: s.Y[:1]}
		err := Render(&bytes.Buffer{}, axis, one, Options{Format: schema.TextPreview})
		require.Error(t, err)
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("length mismatch", func(t *testing.T) {
		bad := Series{Times: s.Times, Y: s.Y[:2]}
		assert.Error(t, Render(&bytes.Buffer{}, axis, bad, Options{}))
	})

	t.Run("unsupported axis", func(t *testing.T) {
		err := Render(&bytes.Buffer{}, schema.Axis{Kind: schema.UnsupportedInput}, s, Options{})
		assert.ErrorContains(t, err, "unsupported")
	})
}

func TestResample(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
		n    int
		want []float64
	}{
		{"linear", []float64{0, 10}, []float64{0, 10}, 3, []float64{0, 5, 10}},
		{"uneven spacing", []float64{0, 1, 4}, []float64{0, 1, 4}, 5, []float64{0, 1, 2, 3, 4}},
		{"single x", []float64{3, 3}, []float64{1, 2}, 4, []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resample(tt.xs, tt.ys, tt.n)
			assert.InDeltaSlice(t, tt.want, got, 1e-9)
		})
	}
}

func TestSortedPairs(t *testing.T) {
	xs, ys := sortedPairs([]float64{3, 1, 2}, []float64{30, 10, 20})
	assert.Equal(t, []float64{1, 2, 3}, xs)
	assert.Equal(t, []float64{10, 20, 30}, ys)

	day := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	times, tys := sortedTimes([]time.Time{day.AddDate(0, 0, 2), day}, []float64{2, 1})
	assert.True(t, times[0].Equal(day))
	assert.Equal(t, []float64{1, 2}, tys)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 20, clamp(3, 20, 120))
	assert.Equal(t, 85, clamp(85, 20, 120))
	assert.Equal(t, 120, clamp(500, 20, 120))
}
