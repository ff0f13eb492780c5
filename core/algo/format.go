package algo

import "github.com/johanreventlow/BFHcharts-sub001/schema"

// Fixed label patterns (strftime). %q is the quarter number.
const (
	PatternDayMonth     = "%d. %b"
	PatternMonthYear    = "%b %Y"
	PatternDayMonthYear = "%d. %b %Y"
	PatternQuarter      = "K%q %Y"
	PatternYear         = "%Y"
)

func fixed(pattern string) schema.LabelStrategy {
	return schema.LabelStrategy{Mode: schema.FixedLabels, Pattern: pattern}
}

func adaptive(level schema.AdaptiveLevel) schema.LabelStrategy {
	return schema.LabelStrategy{Mode: schema.AdaptiveLabels, Level: level}
}

func every(count int, unit schema.TimeUnit) schema.Granularity {
	return schema.Granularity{Count: count, Unit: unit}
}

// SelectFormat maps an interval profile to a format plan.
func SelectFormat(p schema.IntervalProfile) schema.FormatPlan {
	n := p.ObservationCount

	switch p.Type {
	case schema.Daily:
		switch {
		case n < 30:
			return schema.FormatPlan{Labels: fixed(PatternDayMonth), Granularity: every(1, schema.UnitWeek), TargetBreaks: 8}
		case n < 90:
			return schema.FormatPlan{Labels: fixed(PatternMonthYear), Granularity: every(2, schema.UnitWeek), TargetBreaks: 10}
		default:
			return schema.FormatPlan{Labels: fixed(PatternMonthYear), Granularity: every(1, schema.UnitMonth), TargetBreaks: 12}
		}

	case schema.Weekly:
		if n <= 36 {
			return schema.FormatPlan{Labels: adaptive(schema.LevelShort), TargetBreaks: min(n, 24)}
		}
		return schema.FormatPlan{Labels: adaptive(schema.LevelMonthYear), Granularity: every(1, schema.UnitMonth), TargetBreaks: 12}

	case schema.Monthly:
		switch {
		case n < 12:
			return schema.FormatPlan{Labels: adaptive(schema.LevelMonthYear), Granularity: every(1, schema.UnitMonth), TargetBreaks: n}
		case n < 40:
			return schema.FormatPlan{Labels: adaptive(schema.LevelMonthYear), Granularity: every(3, schema.UnitMonth), TargetBreaks: 8}
		default:
			return schema.FormatPlan{Labels: adaptive(schema.LevelYear), Granularity: every(6, schema.UnitMonth), TargetBreaks: 10}
		}

	case schema.Quarterly:
		return schema.FormatPlan{Labels: fixed(PatternQuarter), Granularity: every(3, schema.UnitMonth), TargetBreaks: 8}

	case schema.Yearly:
		return schema.FormatPlan{Labels: fixed(PatternYear), Granularity: every(1, schema.UnitYear), TargetBreaks: min(n, 10)}

	case schema.Irregular, schema.InsufficientData:
		return fallbackPlan(p.TimespanDays)
	}

	return fallbackPlan(p.TimespanDays)
}

// fallbackPlan picks a fixed pattern purely from the covered timespan.
func fallbackPlan(timespanDays float64) schema.FormatPlan {
	switch {
	case timespanDays < 100:
		return schema.FormatPlan{Labels: fixed(PatternDayMonthYear), Granularity: every(2, schema.UnitWeek), TargetBreaks: 8}
	case timespanDays < 730:
		return schema.FormatPlan{Labels: fixed(PatternMonthYear), Granularity: every(2, schema.UnitMonth), TargetBreaks: 10}
	default:
		return schema.FormatPlan{Labels: fixed(PatternYear), Granularity: every(1, schema.UnitYear), TargetBreaks: 12}
	}
}
