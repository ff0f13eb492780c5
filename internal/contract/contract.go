// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// HistoryManager defines the interface for reaching the run-history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for recording axis runs and their breaks.
type HistoryStore interface {
	// RecordRun stores one run with its breaks and returns the new run ID.
	RecordRun(ctx context.Context, run schema.AxisRunRecord, breaks []schema.AxisBreakRecord) (int64, error)

	// GetStatus returns status information about the history store.
	GetStatus(ctx context.Context) (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID.
	GetAllRuns(ctx context.Context) ([]schema.AxisRunRecord, error)

	// GetAllBreaks returns every recorded break ordered by run and position.
	GetAllBreaks(ctx context.Context) ([]schema.AxisBreakRecord, error)

	// Close closes the underlying connection.
	Close() error
}
