package iocache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	ctx := context.Background()

	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteHistoryExport(ctx, &MockHistoryManager{}, "")
		require.Error(t, err)
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("history not initialized", func(t *testing.T) {
		mgr := &MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(nil)
		assert.Error(t, ExecuteHistoryExport(ctx, mgr, filepath.Join(t.TempDir(), "out")))
		mgr.AssertExpectations(t)
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus", mock.Anything).Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)
		mgr := &MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		err := ExecuteHistoryExport(ctx, mgr, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no recorded runs")
		store.AssertNotCalled(t, "GetAllRuns", mock.Anything)
	})

	t.Run("status error", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus", mock.Anything).Return(schema.HistoryStatus{}, errors.New("boom"))
		mgr := &MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)
		assert.ErrorContains(t, ExecuteHistoryExport(ctx, mgr, filepath.Join(t.TempDir(), "out")), "boom")
	})

	t.Run("writes both files", func(t *testing.T) {
		run, breaks := sampleRun("a.csv", time.Now())
		run.RunID = 1
		for i := range breaks {
			breaks[i].RunID = 1
		}
		store := &MockHistoryStore{}
		store.On("GetStatus", mock.Anything).Return(schema.HistoryStatus{
			Backend: "sqlite", Connected: true, TotalRuns: 1, TotalBreaks: len(breaks),
		}, nil)
		store.On("GetAllRuns", mock.Anything).Return([]schema.AxisRunRecord{run}, nil)
		store.On("GetAllBreaks", mock.Anything).Return(breaks, nil)
		mgr := &MockHistoryManager{}
		mgr.On("GetHistoryStore").Return(store)

		prefix := filepath.Join(t.TempDir(), "history")
		require.NoError(t, ExecuteHistoryExport(ctx, mgr, prefix))

		for _, suffix := range []string{".axis_runs.parquet", ".axis_breaks.parquet"} {
			info, err := os.Stat(prefix + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
		store.AssertExpectations(t)
	})
}

func TestPrintHistoryStatus(t *testing.T) {
	// Smoke test: both branches print without panicking.
	PrintHistoryStatus(schema.HistoryStatus{Backend: "none"})
	PrintHistoryStatus(schema.HistoryStatus{
		Backend:    "sqlite",
		Connected:  true,
		TotalRuns:  2,
		TableSizes: map[string]int64{axisRunsTable: 2, axisBreaksTable: 9},
	})
}
