package cmd

import (
	"github.com/johanreventlow/BFHcharts-sub001/core"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/spf13/cobra"
)

// previewCmd draws the series on the computed axis.
var previewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Render a chart of the series using the computed axis.",
	Long: `Plot a value column against the time column with the same breaks and
labels that 'bfhaxis axis' reports. Useful for checking an axis by eye
before it goes into a report.

Rows whose value is missing or not numeric are left out of both the chart
and the axis.

Formats:
  png  - raster image (default)
  svg  - vector image
  text - terminal line chart followed by the tick labels

Examples:
  # Write a PNG preview
  bfhaxis preview data.csv --column dato --value-column antal --output-file preview.png

  # Quick look in the terminal
  bfhaxis preview data.csv --format text`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePreview(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot render preview", err)
		}
	},
}
