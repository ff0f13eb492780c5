package cmd

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/iocache"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendConfig reads and validates the history backend settings
// without the full input processing of sharedSetup.
func historyBackendConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(viper.GetString("history-backend"))))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", errors.Newf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}

	useColors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return "", "", errors.Wrap(err, "invalid --color value")
	}
	if err := initOutput(viper.GetBool("log-json"), viper.GetBool("verbose"), useColors); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}
	if err := iocache.InitHistory(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads the configuration for migrate. It does NOT open
// the store, since that would create the tables before migrations run.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on run-history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup, since they never read an input file.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of recorded axis runs",
	Long: `Manage axis runs stored with 'bfhaxis axis --record'.

Each recorded run keeps:
- The interval profile (type, median gap, consistency, timespan)
- The chosen plan (label mode, granularity, target breaks)
- Every break with its position, value and label

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run history statistics
  export  - Export runs and breaks to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check what has been recorded
  bfhaxis history status

  # Export for analysis in pandas/DuckDB
  bfhaxis history export --output-file axis-history`,
}

// historyStatusCmd shows run history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the first and last run
times and the row count of each history table.

Examples:
  bfhaxis history status
  bfhaxis history status --history-backend postgresql`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := historyManager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errors.New("run history is not initialized"))
		}
		status, err := store.GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded axis runs",
	Long: `Delete all recorded runs and their breaks.

For SQLite the database file is removed. For MySQL and PostgreSQL the
history tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  bfhaxis history export --output-file backup
  bfhaxis history clear`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// For SQLite the migrate setup already resolved the file path into HistoryDBConnect.
		if err := iocache.ClearHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs and breaks to Parquet",
	Long: `Export all recorded runs to two Parquet files:
- <output-file>.axis_runs.parquet   - one row per run
- <output-file>.axis_breaks.parquet - one row per break, keyed by run_id

Requires: --output-file parameter

Examples:
  bfhaxis history export --output-file axis-history
  duckdb -c "SELECT interval_type, count(*) FROM 'axis-history.axis_runs.parquet' GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(rootCtx, historyManager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  bfhaxis history migrate

  # Migrate to specific version
  bfhaxis history migrate --target-version 1

  # Rollback to initial state
  bfhaxis history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
