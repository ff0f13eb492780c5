package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// Cadence regularity label constants.
const (
	RegularValue = "Regular" // Regular value
	SteadyValue  = "Steady"  // Steady value
	UnevenValue  = "Uneven"  // Uneven value
	ErraticValue = "Erratic" // Erratic value
)

// Color variables for console output.
var (
	RegularColor  = color.New(color.FgGreen, color.Bold) // RegularColor marks a cadence that needs no attention.
	SteadyColor   = color.New(color.FgCyan)              // SteadyColor is informational.
	UnevenColor   = color.New(color.FgYellow)            // UnevenColor is standard caution, not bold.
	ErraticColor  = color.New(color.FgRed, color.Bold)   // ErraticColor marks a cadence that will not align well.
	AdvisoryColor = color.New(color.FgMagenta)           // AdvisoryColor highlights advisory codes.
)

// GetPlainLabel returns a plain text label describing how regular a cadence is,
// based on the consistency score of the interval profile. This is the core logic
// used for CSV, JSON, and table printing.
func GetPlainLabel(consistency float64) string {
	switch {
	case consistency >= 0.9:
		return RegularValue
	case consistency >= 0.7:
		return SteadyValue
	case consistency >= 0.4:
		return UnevenValue
	default:
		return ErraticValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(consistency float64) string {
	text := GetPlainLabel(consistency)

	switch text {
	case RegularValue:
		return RegularColor.Sprint(text)
	case SteadyValue:
		return SteadyColor.Sprint(text)
	case UnevenValue:
		return UnevenColor.Sprint(text)
	default:
		return ErraticColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Hint: %s\n", strings.Join(hints, "; "))
	}
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".bfhaxis_history.db"
	}
	return filepath.Join(homeDir, ".bfhaxis_history.db")
}

// TruncateLabel shortens a label to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so at least one character of content survives.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, errors.Newf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ParseDelimiter parses a CSV field delimiter. Empty means comma; "tab" and
// "\t" mean a tab character. Anything else must be a single character.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "semicolon":
		return ';', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.WithHint(
			errors.Newf("invalid delimiter %q", s),
			"use a single character such as ',' or ';', or 'tab'")
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.Newf("delimiter %q cannot be used", s)
	}
	return r, nil
}

// granularityAliases maps single-word break specs to granularities.
var granularityAliases = map[string]schema.Granularity{
	"day":      {Count: 1, Unit: schema.UnitDay},
	"daily":    {Count: 1, Unit: schema.UnitDay},
	"week":     {Count: 1, Unit: schema.UnitWeek},
	"weekly":   {Count: 1, Unit: schema.UnitWeek},
	"month":    {Count: 1, Unit: schema.UnitMonth},
	"monthly":  {Count: 1, Unit: schema.UnitMonth},
	"quarter":  {Count: 3, Unit: schema.UnitMonth},
	"year":     {Count: 1, Unit: schema.UnitYear},
	"yearly":   {Count: 1, Unit: schema.UnitYear},
	"halfyear": {Count: 6, Unit: schema.UnitMonth},
}

// ParseGranularity parses break specs such as "2 weeks", "3 months", "quarter".
// An empty string returns the zero Granularity.
func ParseGranularity(s string) (schema.Granularity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return schema.Granularity{}, nil
	}
	if g, ok := granularityAliases[s]; ok {
		return g, nil
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return schema.Granularity{}, invalidGranularity(s)
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 1 || count > 1000 {
		return schema.Granularity{}, invalidGranularity(s)
	}
	unit := strings.TrimSuffix(fields[1], "s")
	if unit == "quarter" {
		return schema.Granularity{Count: 3 * count, Unit: schema.UnitMonth}, nil
	}
	switch schema.TimeUnit(unit) {
	case schema.UnitDay, schema.UnitWeek, schema.UnitMonth, schema.UnitYear:
		return schema.Granularity{Count: count, Unit: schema.TimeUnit(unit)}, nil
	}
	return schema.Granularity{}, invalidGranularity(s)
}

func invalidGranularity(s string) error {
	return errors.WithHint(
		errors.Newf("invalid break spec %q", s),
		"use 'N unit' with unit day, week, month, quarter or year, e.g. '2 weeks'")
}
