// Package dataset loads CSV tables from uploads, files and URLs and keeps them in memory.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// NaNValues are the raw cell values treated as missing. They follow the strings
// pandas reads as NaN by default, plus gota's own "<nil>".
var NaNValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null", "<nil>",
}

var (
	// ErrEmpty is returned for CSV input without a header row.
	ErrEmpty = errors.New("csv has no header row")
	// ErrNotNumeric is returned when a column that must hold numbers does not.
	ErrNotNumeric = errors.New("column is not numeric")
	// ErrTooManyFields is returned for a row with more cells than the header.
	ErrTooManyFields = errors.New("too many fields")
)

// MissingColumnError names the first required column absent from a header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// RequireColumns checks that every required name is present in header.
// The first missing column, in the order given, is reported.
func RequireColumns(header []string, required ...string) error {
	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[strings.TrimSpace(name)] = true
	}
	for _, name := range required {
		if !present[name] {
			return &MissingColumnError{Column: name}
		}
	}
	return nil
}

// ReadRecords reads all CSV records. The header is trimmed of surrounding whitespace
// and a UTF-8 byte order mark. Rows shorter than the header are padded with empty
// (missing) cells; longer rows are an error.
func ReadRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	header := records[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}
	for i, record := range records[1:] {
		switch {
		case len(record) > len(header):
			return nil, fmt.Errorf("row %d: expected %d fields, saw %d: %w",
				i+1, len(header), len(record), ErrTooManyFields)
		case len(record) < len(header):
			padded := make([]string, len(header))
			copy(padded, record)
			records[i+1] = padded
		}
	}
	return records, nil
}

// Table is an uploaded CSV of arbitrary shape.
type Table struct {
	df dataframe.DataFrame
}

// ReadTable parses r into a Table, detecting column types.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}
	df := dataframe.LoadRecords(records, dataframe.NaNValues(NaNValues))
	if df.Err != nil {
		return nil, df.Err
	}
	return &Table{df: df}, nil
}

// Names returns the column names.
func (t *Table) Names() []string {
	return t.df.Names()
}

// Nrow returns the number of data rows.
func (t *Table) Nrow() int {
	return t.df.Nrow()
}

// Preview returns the header and at most n rows rendered as strings.
func (t *Table) Preview(n int) ([]string, [][]string) {
	records := t.df.Records()
	header, rows := records[0], records[1:]
	if len(rows) > n {
		rows = rows[:n]
	}
	return header, rows
}

// XY holds the first two columns of a table ready for plotting.
type XY struct {
	XName, YName string
	X, Y         []float64
	// XLabels is set when the first column is not numeric; X then holds row positions.
	XLabels []string
}

// XY extracts the first column as x and the second as y. Rows with a missing y are skipped.
func (t *Table) XY() (XY, error) {
	names := t.df.Names()
	if len(names) < 2 {
		return XY{}, fmt.Errorf("need at least two columns, got %d", len(names))
	}
	xs, ys := t.df.Col(names[0]), t.df.Col(names[1])
	if !isNumeric(ys) {
		return XY{}, fmt.Errorf("%q: %w", names[1], ErrNotNumeric)
	}

	out := XY{XName: names[0], YName: names[1]}
	yv := ys.Float()
	numericX := isNumeric(xs)
	xv := xs.Float()
	xr := xs.Records()
	for i := range yv {
		if ys.Elem(i).IsNA() {
			continue
		}
		if numericX {
			if xs.Elem(i).IsNA() {
				continue
			}
			out.X = append(out.X, xv[i])
		} else {
			out.X = append(out.X, float64(len(out.X)))
			out.XLabels = append(out.XLabels, xr[i])
		}
		out.Y = append(out.Y, yv[i])
	}
	if len(out.Y) == 0 {
		return XY{}, fmt.Errorf("%q has no values", names[1])
	}
	return out, nil
}

func isNumeric(s series.Series) bool {
	return s.Type() == series.Int || s.Type() == series.Float
}
