// Package schema has the models and constants shared by every part of bfhaxis.
package schema

import (
	"fmt"
	"time"
)

// IntervalProfile summarizes the spacing of a temporal series.
type IntervalProfile struct {
	Type             IntervalType `json:"type"`
	MedianGapDays    float64      `json:"median_gap_days"` // NaN when fewer than two distinct instants
	Consistency      float64      `json:"consistency"`     // always within [0,1]
	TimespanDays     float64      `json:"timespan_days"`
	ObservationCount int          `json:"observation_count"`
}

// Granularity is a nominal tick spacing such as "1 month" or "2 weeks".
// The zero value means no explicit granularity.
type Granularity struct {
	Count int      `json:"count"`
	Unit  TimeUnit `json:"unit"`
}

// IsZero reports whether g carries no explicit spacing.
func (g Granularity) IsZero() bool {
	return g.Count <= 0 || g.Unit == ""
}

// String renders g the way it is written in plans, e.g. "2 weeks".
func (g Granularity) String() string {
	if g.IsZero() {
		return "none"
	}
	if g.Count == 1 {
		return fmt.Sprintf("1 %s", g.Unit)
	}
	return fmt.Sprintf("%d %ss", g.Count, g.Unit)
}

// LabelStrategy tells the consumer how to turn a tick into display text.
type LabelStrategy struct {
	Mode    LabelMode     `json:"mode"`
	Pattern string        `json:"pattern,omitempty"` // strftime pattern, fixed mode only
	Level   AdaptiveLevel `json:"level,omitempty"`   // adaptive mode only
}

// FormatPlan is the label strategy and nominal tick spacing chosen for a profile.
type FormatPlan struct {
	Labels       LabelStrategy `json:"labels"`
	Granularity  Granularity   `json:"granularity"`
	TargetBreaks int           `json:"target_breaks"`
}

// BreakSet is an ordered set of temporal tick positions.
type BreakSet []time.Time

// Advisory is a non-fatal signal raised while building an axis.
type Advisory struct {
	Code    AdvisoryCode `json:"code"`
	Message string       `json:"message"`
}

// Axis is everything a renderer needs to draw one axis.
type Axis struct {
	Kind          InputKind       `json:"kind"`
	Profile       IntervalProfile `json:"profile"`
	Plan          FormatPlan      `json:"plan"`
	Breaks        BreakSet        `json:"breaks,omitempty"`
	NumericBreaks []float64       `json:"numeric_breaks,omitempty"`
	Labels        []string        `json:"labels,omitempty"`
	Dropped       int             `json:"dropped"`
	Advisories    []Advisory      `json:"advisories,omitempty"`
}

// HasAdvisory reports whether the axis carries an advisory with the given code.
func (a Axis) HasAdvisory(code AdvisoryCode) bool {
	for _, adv := range a.Advisories {
		if adv.Code == code {
			return true
		}
	}
	return false
}

// AxisResult is an axis together with the column it was built from.
type AxisResult struct {
	Source string `json:"source"`
	Column string `json:"column"`
	RunID  int64  `json:"run_id,omitempty"` // zero unless the run was recorded
	Axis
}
