package cmd

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/iocache"
	"github.com/johanreventlow/BFHcharts-sub001/internal/logger"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global run-history manager instance.
var historyManager contract.HistoryManager = iocache.Manager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "bfhaxis",
	Short: "Build calendar-aware time axes for SPC charts.",
	Long: `bfhaxis reads a date column, works out how the observations are spaced
and returns break positions with Danish labels that line up with calendar
boundaries (weeks, months, quarters, years).`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory may carry BFHAXIS_* variables.
	_ = godotenv.Load()

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("BFHAXIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("column", contract.DefaultColumn)
	viper.SetDefault("value-column", contract.DefaultValueColumn)
	viper.SetDefault("delimiter", contract.DefaultDelimiter)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("format", schema.PNGPreview)
	viper.SetDefault("chart-width", contract.DefaultChartWidth)
	viper.SetDefault("chart-height", contract.DefaultChartHeight)
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// setConfigFile points viper at --config, or at .bfhaxis.yaml in the
// working directory and $HOME.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".bfhaxis") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return errors.Wrap(err, "unable to unmarshal config")
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.InputPathStr = ""
	if len(args) == 1 {
		input.InputPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	if err := initOutput(cfg.LogJSON, cfg.Verbose, cfg.UseColors); err != nil {
		return err
	}

	// 5. Run history is only opened when this run will be recorded.
	if cfg.Record {
		if err := iocache.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
			return err
		}
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// initOutput configures logging and terminal colors.
func initOutput(logJSON, verbose, useColors bool) error {
	if err := logger.Initialize(logJSON, verbose); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	color.NoColor = !useColors
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return errors.Wrap(err, "error reading config file")
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetHistoryManager sets the global run-history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}
