package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Table is an in-memory CSV-sourced table. Rows are addressed by index and
// fields by header name; all values are kept as raw strings until cleaning.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// NewTable builds a table from a header and rows. Short rows are padded so that
// every row has len(header) fields.
func NewTable(name string, header []string, rows [][]string) *Table {
	t := &Table{Name: name, Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	t.Rows = make([][]string, 0, len(rows))
	for _, r := range rows {
		t.Rows = append(t.Rows, padRow(r, len(t.Header)))
	}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		key := strings.ToLower(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Col returns the position of a column, matching names case-insensitively.
func (t *Table) Col(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// Has reports whether the table carries the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.Col(name)
	return ok
}

// Value returns the trimmed value of column name in row i, or "" when the
// column is absent.
func (t *Table) Value(i int, name string) string {
	j, ok := t.Col(name)
	if !ok || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][j])
}

// Require returns a *DataError listing every named column the table lacks.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		name := ""
		if t != nil {
			name = t.Name
		}
		return &DataError{Table: name, Missing: missing}
	}
	return nil
}

// ReadCSV loads a delimited file into a Table named after the file stem.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSVFrom(f, name, sniffDelimiter(path))
}

// ReadCSVFrom reads a header row followed by data rows from r.
func ReadCSVFrom(rd io.Reader, name string, delim rune) (*Table, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	if delim != 0 {
		r.Comma = delim
	}
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(name, nil, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return NewTable(name, header, rows), nil
}

// WriteCSV writes the table to path, creating parent directories.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()
	if err := t.Encode(f); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes the table as comma-separated values.
func (t *Table) Encode(wr io.Writer) error {
	w := csv.NewWriter(wr)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

func padRow(rec []string, n int) []string {
	out := make([]string, n)
	copy(out, rec)
	return out
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}
