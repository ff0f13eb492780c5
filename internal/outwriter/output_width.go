package outwriter

import (
	"os"

	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableLabelWidth calculates the maximum width for tick labels in table
// output based on terminal width.
func GetMaxTableLabelWidth(cfg *contract.Config) int {
	termWidth := cfg.Width // absolute override from flag/env
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Position + Break columns, plus borders and padding
	baseWidth := 8 + 22 + 12

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 60 {
		return 60
	}
	return available
}
