// Package cmd defines the command-line interface for bfhaxis.
package cmd

import (
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(axisCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("column", "c", contract.DefaultColumn, "Time column: header name or 1-based index")
	rootCmd.PersistentFlags().StringP("delimiter", "d", contract.DefaultDelimiter, "Field delimiter of the input (',' ';' 'tab')")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON lines on stderr")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug details of the axis computation")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of axisCmd to Viper
	axisCmd.Flags().String("breaks", "", "Explicit break spacing, e.g. '2 weeks', 'month', 'quarter' (default: adaptive)")
	axisCmd.Flags().String("label-format", "", "Fixed strftime label pattern, e.g. '%b %Y' (default: adaptive)")
	axisCmd.Flags().Int("target", 0, "Approximate number of breaks when no spacing is given")
	axisCmd.Flags().Bool("record", false, "Store the computed axis in run history")
	if err := viper.BindPFlags(axisCmd.Flags()); err != nil {
		contract.LogFatal("Error binding axis flags", err)
	}

	// Bind all flags of previewCmd to Viper
	previewCmd.Flags().String("value-column", contract.DefaultValueColumn, "Value column: header name or 1-based index")
	previewCmd.Flags().String("format", string(schema.PNGPreview), "Preview format: png or svg or text")
	previewCmd.Flags().Int("chart-width", contract.DefaultChartWidth, "Chart width in pixels")
	previewCmd.Flags().Int("chart-height", contract.DefaultChartHeight, "Chart height in pixels")
	previewCmd.Flags().String("title", "", "Chart title")
	if err := viper.BindPFlags(previewCmd.Flags()); err != nil {
		contract.LogFatal("Error binding preview flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
