package cmd

import (
	"github.com/johanreventlow/BFHcharts-sub001/core"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// axisCmd computes breaks and labels for a time column.
var axisCmd = &cobra.Command{
	Use:   "axis [file]",
	Short: "Compute breaks and labels for the time axis of a series.",
	Long: `Read a delimited file (or stdin) and build the x-axis for its time column.

The observations are classified as daily, weekly, monthly, quarterly, yearly
or irregular. That profile picks a break spacing and a label style, and the
breaks are snapped to calendar boundaries so that the first break is the
first observation. Numeric columns get evenly spaced "pretty" breaks instead.

Prints the interval profile, the chosen plan and one row per break.

Examples:
  # Weekly infection counts, default adaptive axis
  bfhaxis axis infektioner.csv --column dato

  # Semicolon separated export from Excel, read from stdin
  cat data.csv | bfhaxis axis --delimiter ';' --column 1

  # Force quarterly breaks with fixed labels
  bfhaxis axis data.csv --breaks quarter --label-format '%b %Y'

  # Machine-readable output, stored in run history
  bfhaxis axis data.csv --output json --record`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAxis(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot build axis", err)
		}
	},
}
