package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type csvTable struct {
	path      string
	name      string
	delimiter rune
	columns   []string
}

func openCSV(path, table string, delimiter rune) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := newCSVReader(f, delimiter)
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table %s has no header row", path)
	}
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = cleanCell(h)
	}
	if table == "" || table == "-" {
		table = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &csvTable{path: path, name: table, delimiter: delimiter, columns: columns}, nil
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

func (t *csvTable) Name() string {
	return t.name
}

func (t *csvTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *csvTable) Entries(ctx context.Context) (int64, error) {
	var n int64
	err := t.Scan(ctx, nil, func(int64, []float64) error {
		n++
		return nil
	})
	return n, err
}

func (t *csvTable) Scan(ctx context.Context, columns []string, fn ScanFunc) error {
	idx, err := indexColumns(t.name, t.columns, columns)
	if err != nil {
		return err
	}
	f, err := os.Open(t.path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := newCSVReader(f, t.delimiter)
	if _, err := r.Read(); err != nil {
		return err
	}
	values := make([]float64, len(columns))
	var entry int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for i, p := range idx {
			values[i] = math.NaN()
			if p < len(record) {
				values[i] = parseCell(record[p])
			}
		}
		if err := fn(entry, values); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		entry++
	}
}

func (t *csvTable) Close() error {
	return nil
}

func cleanCell(s string) string {
	return strings.TrimSpace(strings.Trim(s, "\""))
}

// parseCell converts a cell to float64.  Empty and NA style cells become NaN.
func parseCell(s string) float64 {
	s = cleanCell(s)
	switch s {
	case "", "NA", "NaN", "nan", "null", "NULL":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
