package columns

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is an in-memory CSV: a header row and the data rows. Rows are padded
// to the header width, so every cell exists.
type Table struct {
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// ReadCSV parses r. The first record is the header. Short rows are padded
// with empty cells and long rows truncated.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading csv: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := NewTable(header)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		t.Append(record)
	}

	return t, nil
}

// LoadCSV reads the CSV file at path
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// NewTable creates an empty table with the given header
func NewTable(headers []string) *Table {
	t := &Table{
		Headers: headers,
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	return t
}

// Append adds a row, padding or truncating it to the header width
func (t *Table) Append(row []string) {
	cells := make([]string, len(t.Headers))
	copy(cells, row)
	t.Rows = append(t.Rows, cells)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of the named column, or nil if there is no such
// header
func (t *Table) Column(name string) []string {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values
}

// Lookup resolves name through Resolve and returns the column's values
func (t *Table) Lookup(name string) (string, []string, error) {
	header, err := Resolve(t.Headers, name)
	if err != nil {
		return "", nil, err
	}
	return header, t.Column(header), nil
}

// WriteCSV writes a header and rows to w
func WriteCSV(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv rows: %w", err)
	}
	return nil
}

// SaveCSV writes a header and rows to the file at path
func SaveCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, headers, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
