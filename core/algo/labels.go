package algo

import (
	"strconv"
	"strings"
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/ncruces/go-strftime"
)

// danishMonths rewrites the C-locale month abbreviations produced by %b.
var danishMonths = strings.NewReplacer(
	"Jan", "jan", "Feb", "feb", "Mar", "mar", "Apr", "apr",
	"May", "maj", "Jun", "jun", "Jul", "jul", "Aug", "aug",
	"Sep", "sep", "Oct", "okt", "Nov", "nov", "Dec", "dec",
)

// Quarter returns the calendar quarter (1-4) of t.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// FixedLabel formats t with a strftime pattern. %q expands to the quarter number
// and month names are Danish.
func FixedLabel(pattern string, t time.Time) string {
	t = t.UTC()
	if strings.Contains(pattern, "%q") {
		pattern = strings.ReplaceAll(pattern, "%q", strconv.Itoa(Quarter(t)))
	}
	return danishMonths.Replace(strftime.Format(pattern, t))
}

// labelUnit is the coarsest calendar unit an adaptive label shows.
type labelUnit int

const (
	unitDayLabel labelUnit = iota
	unitMonthLabel
	unitYearLabel
)

func adaptiveUnit(g schema.Granularity, level schema.AdaptiveLevel) labelUnit {
	switch {
	case level == schema.LevelYear || g.Unit == schema.UnitYear:
		return unitYearLabel
	case level == schema.LevelMonthYear || g.Unit == schema.UnitMonth:
		return unitMonthLabel
	default:
		return unitDayLabel
	}
}

// AdaptiveLabel renders a standalone adaptive label for one tick, including the year.
func AdaptiveLabel(tick time.Time, g schema.Granularity, level schema.AdaptiveLevel) string {
	return labelAt(tick, adaptiveUnit(g, level), true)
}

func labelAt(tick time.Time, unit labelUnit, withYear bool) string {
	var pattern string
	switch unit {
	case unitYearLabel:
		return FixedLabel(PatternYear, tick)
	case unitMonthLabel:
		pattern = "%b"
	default:
		pattern = PatternDayMonth
	}
	if withYear {
		pattern += " %Y"
	}
	return FixedLabel(pattern, tick)
}

// distinctAt reports whether no two ticks fall in the same calendar unit.
func distinctAt(ticks []time.Time, unit labelUnit) bool {
	seen := make(map[string]struct{}, len(ticks))
	for _, t := range ticks {
		key := labelAt(t, unit, true)
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// FormatLabels renders one label per tick. Adaptive sequences show the year on
// the first tick and wherever it changes, and drop to a finer unit when the
// level's unit would give two ticks the same label.
func FormatLabels(strategy schema.LabelStrategy, g schema.Granularity, ticks []time.Time) []string {
	labels := make([]string, len(ticks))
	if strategy.Mode == schema.FixedLabels {
		for i, t := range ticks {
			labels[i] = FixedLabel(strategy.Pattern, t)
		}
		return labels
	}

	unit := adaptiveUnit(g, strategy.Level)
	for unit > unitDayLabel && !distinctAt(ticks, unit) {
		unit--
	}

	prevYear := 0
	for i, t := range ticks {
		y := t.UTC().Year()
		labels[i] = labelAt(t, unit, i == 0 || y != prevYear)
		prevYear = y
	}
	return labels
}
