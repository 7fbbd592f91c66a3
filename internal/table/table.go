// Package table holds the flat, column-ordered snapshot of extracted records that
// is handed to the output sinks.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/a3tai/huntreport/internal/report/draw"
	"github.com/a3tai/huntreport/internal/report/harvest"
	"github.com/a3tai/huntreport/internal/report/otc"
)

// Table is a named list of rows sharing one column layout. It is not modified
// after construction.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Validate checks that every row matches the column layout
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q has no columns", t.Name)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %q row %d has %d values, expected %d",
				t.Name, i, len(row), len(t.Columns))
		}
	}
	return nil
}

// FromHarvest builds the harvest table
func FromHarvest(name string, rows []harvest.Row) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), harvest.Columns...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Values())
	}
	return t
}

// FromDraw builds the draw-result table
func FromDraw(name string, records []draw.Record) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), draw.Columns...)}
	for _, r := range records {
		t.Rows = append(t.Rows, r.Values())
	}
	return t
}

// FromOTC builds the over-the-counter license table
func FromOTC(name string, rows []otc.Row) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), otc.Columns...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, r.Values())
	}
	return t
}

// Append adds the rows of other, which must share the column layout
func (t *Table) Append(other *Table) error {
	if len(other.Columns) != len(t.Columns) {
		return fmt.Errorf("cannot append table %q to %q: column layouts differ", other.Name, t.Name)
	}
	for i := range t.Columns {
		if t.Columns[i] != other.Columns[i] {
			return fmt.Errorf("cannot append table %q to %q: column %d is %q, expected %q",
				other.Name, t.Name, i, other.Columns[i], t.Columns[i])
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
	return nil
}

// Partition splits t into one table per distinct value of column, in order of
// first appearance
func (t *Table) Partition(column string) ([]*Table, error) {
	idx := -1
	for i, name := range t.Columns {
		if name == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("table %q has no column %q", t.Name, column)
	}

	var parts []*Table
	byKey := make(map[string]*Table)
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("table %q row %d has %d values, expected %d",
				t.Name, i, len(row), len(t.Columns))
		}
		key := FormatValue(row[idx])
		part, ok := byKey[key]
		if !ok {
			part = &Table{Name: t.Name, Columns: t.Columns}
			byKey[key] = part
			parts = append(parts, part)
		}
		part.Rows = append(part.Rows, row)
	}
	return parts, nil
}

// WriteCSV writes a header line followed by one record per row
func WriteCSV(w io.Writer, t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, v := range row {
			record[j] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes t to path, creating parent directories as needed
func WriteCSVFile(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// ReadColumnInts reads the integer values of one named column from CSV input.
// It is used to take the unit universe from a previously written harvest table.
func ReadColumnInts(r io.Reader, column string) ([]int, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := -1
	for i, name := range header {
		if name == column {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("column %q not found", column)
	}

	var out []int
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		n, err := strconv.Atoi(rec[idx])
		if err != nil {
			return nil, fmt.Errorf("line %d: column %q: %w", line, column, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// FormatValue renders one cell
func FormatValue(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case int:
		return strconv.Itoa(tv)
	case bool:
		return strconv.FormatBool(tv)
	default:
		return fmt.Sprint(tv)
	}
}
