package schema

import (
	"encoding/json"
	"math"
)

// MarshalJSON writes a NaN median gap as null, which encoding/json cannot represent otherwise.
func (p IntervalProfile) MarshalJSON() ([]byte, error) {
	type plain IntervalProfile
	out := struct {
		plain
		MedianGapDays *float64 `json:"median_gap_days"`
	}{plain: plain(p)}
	if !math.IsNaN(p.MedianGapDays) {
		v := p.MedianGapDays
		out.MedianGapDays = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a null median gap as NaN.
func (p *IntervalProfile) UnmarshalJSON(data []byte) error {
	type plain IntervalProfile
	in := struct {
		*plain
		MedianGapDays *float64 `json:"median_gap_days"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.MedianGapDays == nil {
		p.MedianGapDays = math.NaN()
	} else {
		p.MedianGapDays = *in.MedianGapDays
	}
	return nil
}

// IsTemporal reports whether the axis carries temporal breaks.
func (a Axis) IsTemporal() bool {
	return a.Kind == TemporalInput
}

// TickCount returns the number of ticks regardless of axis kind.
func (a Axis) TickCount() int {
	if a.Kind == NumericInput {
		return len(a.NumericBreaks)
	}
	return len(a.Breaks)
}
