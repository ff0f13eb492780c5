// Package main provides a performance benchmarking tool for the bfhaxis CLI.
// It generates synthetic series of different cadences and sizes, times
// 'bfhaxis axis' on each of them with and without run recording, treating the
// first successful recorded run as cold and averaging the rest as warm, and
// writes the results as CSV.
//
// Prerequisites:
// - bfhaxis binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated series and the benchmark history database
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// BenchmarkResult holds the result of a benchmark run (no-record average, cold run and average of warm runs).
type BenchmarkResult struct {
	Series       string
	Rows         int
	NoRecordTime string
	ColdTime     string
	WarmTime     string
}

// SeriesSpec describes one generated input series.
type SeriesSpec struct {
	Name string
	Rows int
	Step func(start time.Time, i int) time.Time
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	NoRecordRuns int
	RecordRuns   int
	Series       []SeriesSpec
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      time.Minute,
		NoRecordRuns: 3,
		RecordRuns:   4,
		Series: []SeriesSpec{
			{"daily", 3650, func(s time.Time, i int) time.Time { return s.AddDate(0, 0, i) }},
			{"weekly", 520, func(s time.Time, i int) time.Time { return s.AddDate(0, 0, 7*i) }},
			{"monthly", 240, func(s time.Time, i int) time.Time { return s.AddDate(0, i, 0) }},
			{"quarterly", 80, func(s time.Time, i int) time.Time { return s.AddDate(0, 3*i, 0) }},
			{"irregular", 5000, irregularStep()},
			{"daily-large", 100000, func(s time.Time, i int) time.Time { return s.Add(time.Duration(i) * 24 * time.Hour) }},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Start every recorded phase from an empty history
	dbPath := filepath.Join(config.WorkDir, "bench_history.db")
	_ = os.Remove(dbPath)

	results := runBenchmarks(config, dbPath)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// irregularStep returns gaps drawn between 1 and 60 days, accumulated per call order.
func irregularStep() func(time.Time, int) time.Time {
	rng := rand.New(rand.NewPCG(42, 7))
	offset := 0
	return func(s time.Time, i int) time.Time {
		if i == 0 {
			offset = 0
		} else {
			offset += 1 + rng.IntN(60)
		}
		return s.AddDate(0, 0, offset)
	}
}

// checkPrerequisites verifies that the bfhaxis binary and the work directory exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("bfhaxis"); err != nil {
		return errors.New("bfhaxis binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return errors.Wrapf(err, "cannot create work dir %s", config.WorkDir)
	}
	return nil
}

// writeSeries generates the input file for spec and returns its path.
func writeSeries(dir string, spec SeriesSpec) (string, error) {
	path := filepath.Join(dir, spec.Name+".csv")
	var b strings.Builder
	b.WriteString("dato,antal\n")
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range spec.Rows {
		b.WriteString(spec.Step(start, i).Format(time.DateOnly))
		b.WriteString("," + strconv.Itoa(i%17) + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}
	return path, nil
}

// runBenchmarks executes the benchmark suite for every configured series.
func runBenchmarks(config BenchmarkConfig, dbPath string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d series, %v timeout, no-record: %d runs, record: %d runs\n",
		len(config.Series), config.Timeout, config.NoRecordRuns, config.RecordRuns)

	for _, spec := range config.Series {
		path, err := writeSeries(config.WorkDir, spec)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", spec.Name, err)
			continue
		}
		results = append(results, runBenchmarkSuite(config, spec, path, dbPath))
	}

	return results
}

// runBenchmarkSuite runs both the no-record and record phases for a series.
func runBenchmarkSuite(config BenchmarkConfig, spec SeriesSpec, path, dbPath string) BenchmarkResult {
	fmt.Printf("Benchmarking %s (%d rows)\n", spec.Name, spec.Rows)

	// Helper to run a benchmark phase
	runPhase := func(extraArgs []string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, extraArgs, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: axis only
	_, noRecordAvg := runPhase([]string{"--history-backend", "none"}, config.NoRecordRuns, "No-record")

	// Phase 2: axis stored in SQLite history
	coldTime, warmAvg := runPhase([]string{
		"--history-backend", "sqlite",
		"--history-db-connect", dbPath,
		"--record",
	}, config.RecordRuns, "Record")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-record average: %s, Cold time: %s, Warm average: %s\n", noRecordAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Series:       spec.Name,
		Rows:         spec.Rows,
		NoRecordTime: noRecordAvg,
		ColdTime:     coldTimeStr,
		WarmTime:     warmAvg,
	}
}

// runBenchmark executes 'bfhaxis axis' numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, path string, extraArgs []string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{"axis", path, "--column", "dato", "--color", "no"}, extraArgs...)

	var times []float64
	for range numRuns {
		start := time.Now()

		cmd := exec.Command("bfhaxis", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion.
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Axis built in")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("bfhaxis_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"series", "rows", "no_record_avg", "cold_time", "warm_avg"}); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}

	// Write results
	for _, result := range results {
		record := []string{result.Series, strconv.Itoa(result.Rows), result.NoRecordTime, result.ColdTime, result.WarmTime}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV record")
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-12s %7d rows: No-record: %s, Cold: %s, Warm: %s\n",
			result.Series, result.Rows, result.NoRecordTime, result.ColdTime, result.WarmTime)
	}
}
