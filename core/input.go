package core

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/core/algo"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
)

// stdinSource is the display name recorded for piped input.
const stdinSource = "stdin"

// Table is a delimited input file held in memory.
type Table struct {
	Source string
	Header []string // nil when the first row holds data
	Rows   [][]string
}

// LoadTable reads the configured input file, or stdin when no file is given.
func LoadTable(ctx context.Context, cfg *contract.Config) (Table, error) {
	if cfg.ReadsStdin() {
		return ReadTable(ctx, os.Stdin, stdinSource, cfg.Delimiter)
	}
	f, err := os.Open(cfg.InputPath)
	if err != nil {
		return Table{}, errors.WithHint(
			errors.Wrapf(err, "failed to open input %s", cfg.InputPath),
			"pass a CSV file, or - to read from stdin")
	}
	defer func() { _ = f.Close() }()
	return ReadTable(ctx, f, filepath.Base(cfg.InputPath), cfg.Delimiter)
}

// ReadTable parses delimited records from r. The first row is treated as a
// header when none of its cells reads as a date or a number.
func ReadTable(ctx context.Context, r io.Reader, source string, delim rune) (Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	table := Table{Source: source}
	for line := 1; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return Table{}, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, errors.Wrapf(err, "failed to read %s", source)
		}
		if isBlankRecord(record) {
			continue
		}
		table.Rows = append(table.Rows, record)
	}

	if len(table.Rows) == 0 {
		return Table{}, errors.WithHint(errors.Newf("%s has no rows", source),
			"the input must hold at least one data row")
	}
	if isHeaderRecord(table.Rows[0]) {
		table.Header = table.Rows[0]
		table.Rows = table.Rows[1:]
	}
	return table, nil
}

// Column returns the cells of the column named by ref, either a header name
// (case-insensitive) or a 1-based index. Short rows yield empty cells.
func (t Table) Column(ref string) ([]string, error) {
	idx, err := t.columnIndex(ref)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, nil
}

// ColumnName is the display name of the column named by ref.
func (t Table) ColumnName(ref string) string {
	idx, err := t.columnIndex(ref)
	if err != nil || idx >= len(t.Header) {
		return ref
	}
	return t.Header[idx]
}

func (t Table) columnIndex(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > t.width() {
			return 0, errors.WithHint(
				errors.Newf("column %d is out of range for %s", n, t.Source),
				"the input has "+strconv.Itoa(t.width())+" column(s)")
		}
		return n - 1, nil
	}
	for i, name := range t.Header {
		if strings.EqualFold(strings.TrimSpace(name), ref) {
			return i, nil
		}
	}
	if t.Header == nil {
		return 0, errors.WithHint(errors.Newf("%s has no header row, cannot find column %q", t.Source, ref),
			"select the column by its 1-based index")
	}
	return 0, errors.WithHint(errors.Newf("column %q not found in %s", ref, t.Source),
		"available columns: "+strings.Join(t.Header, ", "))
}

func (t Table) width() int {
	w := len(t.Header)
	for _, row := range t.Rows {
		w = max(w, len(row))
	}
	return w
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isHeaderRecord(record []string) bool {
	named := false
	for _, cell := range record {
		if algo.IsMissingToken(cell) {
			continue
		}
		if _, ok := algo.ParseTemporal(cell); ok {
			return false
		}
		if _, ok := algo.ParseNumeric(cell); ok {
			return false
		}
		named = true
	}
	return named
}
