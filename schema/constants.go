package schema

// Custom string types for type safety.
type (
	// IntervalType is the dominant spacing between consecutive observations.
	IntervalType string

	// TimeUnit is the calendar unit of a Granularity.
	TimeUnit string

	// LabelMode selects between a fixed display pattern and adaptive labels.
	LabelMode string

	// AdaptiveLevel is the coarsest calendar field shown by adaptive labels.
	AdaptiveLevel string

	// InputKind is the kind of series handed to the axis applier.
	InputKind string

	// AdvisoryCode identifies a non-fatal condition raised while building an axis.
	AdvisoryCode string

	// OutputMode represents the format of the output.
	OutputMode string

	// PreviewFormat represents the format of a rendered chart preview.
	PreviewFormat string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All interval types. The order matches the classification thresholds.
const (
	Daily            IntervalType = "daily"
	Weekly           IntervalType = "weekly"
	Monthly          IntervalType = "monthly"
	Quarterly        IntervalType = "quarterly"
	Yearly           IntervalType = "yearly"
	Irregular        IntervalType = "irregular"
	InsufficientData IntervalType = "insufficient_data"
)

// All time units supported by Granularity.
const (
	UnitDay   TimeUnit = "day"
	UnitWeek  TimeUnit = "week"
	UnitMonth TimeUnit = "month"
	UnitYear  TimeUnit = "year"
)

// All label modes.
const (
	FixedLabels    LabelMode = "fixed"
	AdaptiveLabels LabelMode = "adaptive"
)

// All adaptive label levels.
const (
	LevelShort     AdaptiveLevel = "short"      // day and month, year on change
	LevelMonthYear AdaptiveLevel = "month_year" // month, year on change
	LevelYear      AdaptiveLevel = "year"       // year only
)

// All input kinds.
const (
	TemporalInput    InputKind = "temporal"
	NumericInput     InputKind = "numeric"
	UnsupportedInput InputKind = "unsupported"
)

// All advisory codes.
const (
	AdvisoryInsufficientData        AdvisoryCode = "insufficient_data"
	AdvisoryUnresolvableGranularity AdvisoryCode = "unresolvable_granularity"
	AdvisoryUnsupportedInputKind    AdvisoryCode = "unsupported_input_kind"
	AdvisoryDroppedValues           AdvisoryCode = "dropped_values"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All preview formats supported.
const (
	PNGPreview  PreviewFormat = "png" // default
	SVGPreview  PreviewFormat = "svg"
	TextPreview PreviewFormat = "text"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllIntervalTypes lists every interval type in classification order.
var AllIntervalTypes = []IntervalType{Daily, Weekly, Monthly, Quarterly, Yearly, Irregular, InsufficientData}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPreviewFormats lists all valid preview formats.
var ValidPreviewFormats = map[PreviewFormat]struct{}{
	PNGPreview:  {},
	SVGPreview:  {},
	TextPreview: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
