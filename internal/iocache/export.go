package iocache

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/internal/parquet"
)

// ExecuteHistoryExport writes the recorded runs and breaks to Parquet files
// named <outputFile>.axis_runs.parquet and <outputFile>.axis_breaks.parquet.
func ExecuteHistoryExport(ctx context.Context, mgr contract.HistoryManager, outputFile string) error {
	if outputFile == "" {
		return errors.WithHint(errors.New("--output-file is required for export command"),
			"pass a path prefix such as --output-file history")
	}

	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("run history is not initialized")
	}

	status, err := store.GetStatus(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get history status")
	}
	if status.TotalRuns == 0 {
		return errors.WithHint(errors.New("no recorded runs found to export"),
			"record runs with bfhaxis axis --record")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total breaks: %d\n", status.TotalBreaks)

	runs, err := store.GetAllRuns(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to retrieve axis runs")
	}
	breaks, err := store.GetAllBreaks(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to retrieve axis breaks")
	}

	parquetRuns := parquet.ConvertAxisRunRecords(runs)
	runsFile := outputFile + ".axis_runs.parquet"
	if err := parquet.WriteAxisRunsParquet(parquetRuns, runsFile); err != nil {
		return errors.Wrap(err, "failed to write axis runs")
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetBreaks := parquet.ConvertAxisBreakRecords(breaks)
	breaksFile := outputFile + ".axis_breaks.parquet"
	if err := parquet.WriteAxisBreaksParquet(parquetBreaks, breaksFile); err != nil {
		return errors.Wrap(err, "failed to write axis breaks")
	}
	fmt.Printf("Exported %d breaks to: %s\n", len(parquetBreaks), breaksFile)

	return nil
}
