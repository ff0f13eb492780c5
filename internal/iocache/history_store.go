package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
	"github.com/johanreventlow/BFHcharts-sub001/schema"
)

// Table names for run history.
const (
	axisRunsTable   = "bfhaxis_axis_runs"
	axisBreaksTable = "bfhaxis_axis_breaks"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled history
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, _, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var hint string
		switch backend {
		case schema.MySQLBackend:
			hint = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			hint = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			hint = "Verify the database file is readable and its directory is writable."
		}
		return nil, errors.WithHint(errors.Wrapf(err, "failed to connect to %s database", backend), hint)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create history tables")
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run-history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{axisRunsTable, getCreateAxisRunsQuery(backend)},
		{axisBreaksTable, getCreateAxisBreaksQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return errors.Wrapf(err, "failed to create table %s", table.name)
		}
	}
	return nil
}

// getCreateAxisRunsQuery returns the CREATE TABLE query for bfhaxis_axis_runs.
func getCreateAxisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(axisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_time DATETIME(6) NOT NULL,
				source VARCHAR(512) NOT NULL,
				kind VARCHAR(20) NOT NULL,
				interval_type VARCHAR(32) NOT NULL,
				median_gap_days DOUBLE,
				consistency DOUBLE NOT NULL,
				timespan_days DOUBLE NOT NULL,
				observation_count INT NOT NULL,
				dropped_count INT NOT NULL,
				label_mode VARCHAR(20) NOT NULL,
				granularity VARCHAR(32) NOT NULL,
				target_breaks INT NOT NULL,
				break_count INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_time TIMESTAMPTZ NOT NULL,
				source TEXT NOT NULL,
				kind TEXT NOT NULL,
				interval_type TEXT NOT NULL,
				median_gap_days DOUBLE PRECISION,
				consistency DOUBLE PRECISION NOT NULL,
				timespan_days DOUBLE PRECISION NOT NULL,
				observation_count INT NOT NULL,
				dropped_count INT NOT NULL,
				label_mode TEXT NOT NULL,
				granularity TEXT NOT NULL,
				target_breaks INT NOT NULL,
				break_count INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_time TEXT NOT NULL,
				source TEXT NOT NULL,
				kind TEXT NOT NULL,
				interval_type TEXT NOT NULL,
				median_gap_days REAL,
				consistency REAL NOT NULL,
				timespan_days REAL NOT NULL,
				observation_count INTEGER NOT NULL,
				dropped_count INTEGER NOT NULL,
				label_mode TEXT NOT NULL,
				granularity TEXT NOT NULL,
				target_breaks INTEGER NOT NULL,
				break_count INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateAxisBreaksQuery returns the CREATE TABLE query for bfhaxis_axis_breaks.
func getCreateAxisBreaksQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(axisBreaksTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				value DOUBLE NOT NULL,
				label VARCHAR(100) NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				position INT NOT NULL,
				value DOUBLE PRECISION NOT NULL,
				label TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				position INTEGER NOT NULL,
				value REAL NOT NULL,
				label TEXT NOT NULL,
				PRIMARY KEY (run_id, position)
			);
		`, quotedTableName)
	}
}

// RecordRun stores a run and its breaks in one transaction and returns the run ID.
func (hs *HistoryStoreImpl) RecordRun(ctx context.Context, run schema.AxisRunRecord, breaks []schema.AxisBreakRecord) (int64, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	tx, err := hs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin history transaction")
	}
	defer func() { _ = tx.Rollback() }()

	quotedRuns := quoteTableName(axisRunsTable, hs.backend)
	columns := `run_time, source, kind, interval_type, median_gap_days, consistency, timespan_days,
		observation_count, dropped_count, label_mode, granularity, target_breaks, break_count`
	args := []any{
		formatTime(run.RunTime, hs.backend), run.Source, string(run.Kind), string(run.IntervalType),
		run.MedianGapDays, run.Consistency, run.TimespanDays, run.ObservationCount, run.DroppedCount,
		string(run.LabelMode), run.Granularity, run.TargetBreaks, run.BreakCount,
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING run_id`, quotedRuns, columns)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&runID); err != nil {
			return 0, errors.Wrap(err, "failed to insert axis run")
		}
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedRuns, columns)
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, errors.Wrap(err, "failed to insert axis run")
		}
		if runID, err = result.LastInsertId(); err != nil {
			return 0, errors.Wrap(err, "failed to read axis run id")
		}
	}

	quotedBreaks := quoteTableName(axisBreaksTable, hs.backend)
	var breakQuery string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		breakQuery = fmt.Sprintf(`INSERT INTO %s (run_id, position, value, label) VALUES ($1, $2, $3, $4)`, quotedBreaks)
	default: // SQLite and MySQL
		breakQuery = fmt.Sprintf(`INSERT INTO %s (run_id, position, value, label) VALUES (?, ?, ?, ?)`, quotedBreaks)
	}
	stmt, err := tx.PrepareContext(ctx, breakQuery)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare break insert")
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range breaks {
		if _, err := stmt.ExecContext(ctx, runID, b.Position, b.Value, b.Label); err != nil {
			return 0, errors.Wrapf(err, "failed to insert break %d of run %d", b.Position, runID)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit axis run")
	}
	return runID, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus(ctx context.Context) (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(axisRunsTable, hs.backend)
	row := hs.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, errors.Wrap(err, "failed to get total runs")
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, run_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		last := timeScanner{backend: hs.backend}
		if err := hs.db.QueryRowContext(ctx, lastRunQuery).Scan(&status.LastRunID, &last); err != nil {
			return status, errors.Wrap(err, "failed to get last run info")
		}
		status.LastRunTime = last.t

		oldestRunQuery := fmt.Sprintf("SELECT run_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)
		oldest := timeScanner{backend: hs.backend}
		if err := hs.db.QueryRowContext(ctx, oldestRunQuery).Scan(&oldest); err != nil {
			return status, errors.Wrap(err, "failed to get oldest run time")
		}
		status.OldestRunTime = oldest.t
	}

	for _, table := range []string{axisRunsTable, axisBreaksTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
			return status, errors.Wrapf(err, "failed to get count for table %s", table)
		}
		status.TableSizes[table] = count
	}
	status.TotalBreaks = int(status.TableSizes[axisBreaksTable])

	return status, nil
}

// GetAllRuns retrieves all axis runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns(ctx context.Context) ([]schema.AxisRunRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_time, source, kind, interval_type, median_gap_days, consistency,
		timespan_days, observation_count, dropped_count, label_mode, granularity, target_breaks, break_count
		FROM %s ORDER BY run_id`, quoteTableName(axisRunsTable, hs.backend))

	rows, err := hs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query axis runs")
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AxisRunRecord
	for rows.Next() {
		var (
			record              schema.AxisRunRecord
			kind, interval, lab string
		)
		runTime := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RunID, &runTime, &record.Source, &kind, &interval, &record.MedianGapDays,
			&record.Consistency, &record.TimespanDays, &record.ObservationCount, &record.DroppedCount,
			&lab, &record.Granularity, &record.TargetBreaks, &record.BreakCount); err != nil {
			return nil, errors.Wrap(err, "failed to scan axis run")
		}
		record.RunTime = runTime.t
		record.Kind = schema.InputKind(kind)
		record.IntervalType = schema.IntervalType(interval)
		record.LabelMode = schema.LabelMode(lab)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating axis runs")
	}
	return results, nil
}

// GetAllBreaks retrieves all recorded breaks from the store.
func (hs *HistoryStoreImpl) GetAllBreaks(ctx context.Context) ([]schema.AxisBreakRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, position, value, label FROM %s ORDER BY run_id, position`,
		quoteTableName(axisBreaksTable, hs.backend))

	rows, err := hs.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query axis breaks")
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AxisBreakRecord
	for rows.Next() {
		var record schema.AxisBreakRecord
		if err := rows.Scan(&record.RunID, &record.Position, &record.Value, &record.Label); err != nil {
			return nil, errors.Wrap(err, "failed to scan axis break")
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating axis breaks")
	}
	return results, nil
}

// timeScanner reads a timestamp column stored as RFC3339 text (SQLite) or a
// native datetime (MySQL/PostgreSQL).
type timeScanner struct {
	backend schema.DatabaseBackend
	t       time.Time
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.t = time.Time{}
		return nil
	default:
		return errors.Newf("cannot scan %T into a timestamp", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return errors.Wrapf(err, "failed to parse %s timestamp %q", ts.backend, s)
	}
	ts.t = t.UTC()
	return nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}
