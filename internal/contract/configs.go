package contract

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// Default values for configuration.
const (
	DefaultColumn      = "1"
	DefaultValueColumn = "2"
	DefaultDelimiter   = ","
	DefaultPrecision   = 2
	MaxPrecision       = 6
	DefaultChartWidth  = 1024
	DefaultChartHeight = 512
	MinChartSize       = 64
	MaxChartSize       = 8192
)

// Config holds the runtime configuration for building an axis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath string // "" or "-" reads stdin
	Source    string // display name of the input, recorded in history

	Column      string // header name or 1-based index
	ValueColumn string // preview only
	Delimiter   rune

	// Explicit break spec; a zero Granularity keeps the adaptive plan.
	Granularity  schema.Granularity
	LabelFormat  string
	TargetBreaks int

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Record           bool
	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	PreviewFormat schema.PreviewFormat
	ChartWidth    int
	ChartHeight   int
	Title         string

	LogJSON bool
	Verbose bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Column           string `mapstructure:"column"`
	Delimiter        string `mapstructure:"delimiter"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogJSON          bool   `mapstructure:"log-json"`
	Verbose          bool   `mapstructure:"verbose"`

	// --- Fields from axisCmd.Flags() ---
	Breaks      string `mapstructure:"breaks"`
	LabelFormat string `mapstructure:"label-format"`
	Target      int    `mapstructure:"target"`
	Record      bool   `mapstructure:"record"`

	// --- Fields from previewCmd.Flags() ---
	ValueColumn string `mapstructure:"value-column"`
	Format      string `mapstructure:"format"`
	ChartWidth  int    `mapstructure:"chart-width"`
	ChartHeight int    `mapstructure:"chart-height"`
	Title       string `mapstructure:"title"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ReadsStdin reports whether input comes from standard input.
func (c *Config) ReadsStdin() bool {
	return c.InputPath == "" || c.InputPath == "-"
}

// HasExplicitPlan reports whether the user overrode the adaptive plan.
func (c *Config) HasExplicitPlan() bool {
	return !c.Granularity.IsZero() || c.LabelFormat != "" || c.TargetBreaks > 0
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processInput(cfg, input); err != nil {
		return err
	}
	if err := processBreakSpec(cfg, input); err != nil {
		return err
	}
	if err := processPreview(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return errors.WithHint(
				errors.Newf("history-db-connect is required when using %s backend", backend),
				"set BFHAXIS_HISTORY_DB_CONNECT=user:pass@tcp(host:3306)/dbname")
		}
		if !strings.Contains(connStr, "@tcp(") {
			return errors.New("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return errors.New("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return errors.WithHint(
				errors.Newf("history-db-connect is required when using %s backend", backend),
				"set BFHAXIS_HISTORY_DB_CONNECT='host=localhost user=... dbname=...'")
		}
		if !strings.Contains(connStr, "host=") {
			return errors.New("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return errors.New("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.HistoryBackend))
	if backend == "" {
		backend = string(schema.SQLiteBackend)
	}
	cfg.HistoryBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return errors.Newf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}
	cfg.Record = input.Record
	if cfg.Record && cfg.HistoryBackend == schema.NoneBackend {
		return errors.WithHint(
			errors.New("--record needs a history backend"),
			"use --history-backend sqlite, mysql or postgresql")
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.LogJSON = input.LogJSON
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return errors.Wrap(err, "invalid --color value")
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return errors.Newf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return errors.Newf("width cannot be negative (received %d)", input.Width)
	}

	output := strings.ToLower(strings.TrimSpace(input.Output))
	if output == "" {
		output = string(schema.TextOut)
	}
	cfg.Output = schema.OutputMode(output)
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return errors.Newf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.WithHint(
			errors.New("parquet output needs a file"),
			"pass --output-file axis.parquet")
	}
	return nil
}

// processInput resolves the input source, column selection and delimiter.
func processInput(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)
	cfg.Source = cfg.InputPath
	if cfg.ReadsStdin() {
		cfg.Source = "stdin"
	}

	cfg.Column = strings.TrimSpace(input.Column)
	if cfg.Column == "" {
		cfg.Column = DefaultColumn
	}
	if err := validateColumnRef(cfg.Column); err != nil {
		return errors.Wrap(err, "invalid --column")
	}

	delim, err := ParseDelimiter(input.Delimiter)
	if err != nil {
		return err
	}
	cfg.Delimiter = delim
	return nil
}

// processBreakSpec parses the explicit break override, if any.
func processBreakSpec(cfg *Config, input *ConfigRawInput) error {
	g, err := ParseGranularity(input.Breaks)
	if err != nil {
		return err
	}
	cfg.Granularity = g
	cfg.LabelFormat = strings.TrimSpace(input.LabelFormat)

	if input.Target < 0 || input.Target > 100 {
		return errors.Newf("target must be between 0 and 100 (received %d)", input.Target)
	}
	cfg.TargetBreaks = input.Target
	return nil
}

// processPreview handles the chart preview parameters.
func processPreview(cfg *Config, input *ConfigRawInput) error {
	cfg.ValueColumn = strings.TrimSpace(input.ValueColumn)
	if cfg.ValueColumn == "" {
		cfg.ValueColumn = DefaultValueColumn
	}
	if err := validateColumnRef(cfg.ValueColumn); err != nil {
		return errors.Wrap(err, "invalid --value-column")
	}
	cfg.Title = input.Title

	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		format = string(schema.PNGPreview)
	}
	cfg.PreviewFormat = schema.PreviewFormat(format)
	if _, ok := schema.ValidPreviewFormats[cfg.PreviewFormat]; !ok {
		return errors.Newf("invalid preview format '%s'. must be png, svg, text", input.Format)
	}

	cfg.ChartWidth, cfg.ChartHeight = input.ChartWidth, input.ChartHeight
	if cfg.ChartWidth == 0 {
		cfg.ChartWidth = DefaultChartWidth
	}
	if cfg.ChartHeight == 0 {
		cfg.ChartHeight = DefaultChartHeight
	}
	for name, v := range map[string]int{"chart-width": cfg.ChartWidth, "chart-height": cfg.ChartHeight} {
		if v < MinChartSize || v > MaxChartSize {
			return errors.Newf("%s must be between %d and %d (received %d)", name, MinChartSize, MaxChartSize, v)
		}
	}
	return nil
}

// validateColumnRef accepts a header name or a positive 1-based index.
func validateColumnRef(ref string) error {
	if n, err := strconv.Atoi(ref); err == nil && n < 1 {
		return errors.Newf("column index must be 1 or greater (received %d)", n)
	}
	return nil
}
