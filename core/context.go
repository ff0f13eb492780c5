package core

import "context"

// Context keys for axis runs
type contextKey string

const runIDKey contextKey = "runID"

// withRunID stores the ID of the recorded run in the context
func withRunID(ctx context.Context, runID int64) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// getRunID returns the recorded run ID from context, if any
func getRunID(ctx context.Context) (int64, bool) {
	val := ctx.Value(runIDKey)
	if val == nil {
		return 0, false // default: run not recorded
	}
	runID, ok := val.(int64)
	return runID, ok
}
