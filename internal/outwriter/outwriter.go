// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAxis prints an axis result using the configured output format.
func (ow *OutWriter) WriteAxis(result schema.AxisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAxisResults(result, cfg, duration)
}
