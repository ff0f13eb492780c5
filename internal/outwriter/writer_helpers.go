package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/johanreventlow/BFHcharts-sub001/internal/contract"
)

// withOutput runs write against outputFile, or stdout when it is empty.
// what names the output in errors and in the note printed for files.
func withOutput(outputFile, what string, write func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := write(file); err != nil {
		return errors.Wrapf(err, "failed to write %s", what)
	}
	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "Wrote %s to %s\n", what, outputFile)
	}
	return nil
}

// encodeJSON writes v as indented JSON followed by a newline.
func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(v), "failed to encode JSON")
}

// writeCSVRecords writes header and rows and reports the first write error.
func writeCSVRecords(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "failed to write CSV rows")
	}
	return nil
}

// decimalFormatter renders floats with a fixed number of decimals.
func decimalFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
