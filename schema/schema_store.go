package schema

import "time"

// AxisRunRecord represents a row from the bfhaxis_axis_runs table.
type AxisRunRecord struct {
	RunID            int64
	RunTime          time.Time
	Source           string
	Kind             InputKind
	IntervalType     IntervalType
	MedianGapDays    *float64 // nil when undefined
	Consistency      float64
	TimespanDays     float64
	ObservationCount int32
	DroppedCount     int32
	LabelMode        LabelMode
	Granularity      string
	TargetBreaks     int32
	BreakCount       int32
}

// AxisBreakRecord represents a row from the bfhaxis_axis_breaks table.
type AxisBreakRecord struct {
	RunID    int64
	Position int32
	Value    float64 // unix seconds for temporal axes
	Label    string
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalBreaks   int              `json:"total_breaks"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}
