package outwriter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalFormatter(t *testing.T) {
	tests := []struct {
		precision int
		value     float64
		expected  string
	}{
		{2, 7.0, "7.00"},
		{0, 30.44, "30"},
		{1, 0.96, "1.0"},
		{3, -1.23456, "-1.235"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, decimalFormatter(tt.precision)(tt.value))
		})
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, encodeJSON(&buf, map[string]any{"breaks": []string{"2024-01-01"}}))
	assert.Equal(t, "{\n  \"breaks\": [\n    \"2024-01-01\"\n  ]\n}\n", buf.String())

	err := encodeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVRecords(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected string
	}{
		{"header only", nil, "position,label\n"},
		{"ticks", [][]string{{"0", "01. jan 2024"}, {"1", "15. jan"}}, "position,label\n0,01. jan 2024\n1,15. jan\n"},
		{"quoted label", [][]string{{"0", "uge 1, 2024"}}, "position,label\n0,\"uge 1, 2024\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCSVRecords(&buf, []string{"position", "label"}, tt.rows))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWithOutput(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		called := false
		require.NoError(t, withOutput("", "axis table", func(io.Writer) error {
			called = true
			return nil
		}))
		assert.True(t, called)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "axis.json")
		require.NoError(t, withOutput(path, "JSON axis", func(w io.Writer) error {
			return encodeJSON(w, map[string]int{"run_id": 4})
		}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var got map[string]int
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, 4, got["run_id"])
	})

	t.Run("write error is wrapped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "axis.csv")
		err := withOutput(path, "CSV axis", func(io.Writer) error { return assert.AnError })
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to write CSV axis")
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := withOutput(filepath.Join(t.TempDir(), "missing", "axis.csv"), "CSV axis", func(io.Writer) error { return nil })
		require.Error(t, err)
	})
}
