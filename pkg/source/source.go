// Package source reads numeric columns from tabular files.  ROOT trees, SQLite
// tables and delimited text are supported; every value is widened to float64.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrStop may be returned by a scan callback to end the scan early without error
var ErrStop = errors.New("stop scan")

// ErrUnsupportedFormat is returned when the file extension is not a known table format
var ErrUnsupportedFormat = errors.New("unsupported table format")

// ColumnError reports a requested column that does not exist in the table
type ColumnError struct {
	Table  string
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.Column, e.Table)
}

// ScanFunc receives each row in order.  values are aligned with the requested columns.
type ScanFunc func(entry int64, values []float64) error

// Table is a named collection of rows with numeric columns
type Table interface {
	Name() string
	Columns() []string
	Entries(ctx context.Context) (int64, error)
	Scan(ctx context.Context, columns []string, fn ScanFunc) error
	Close() error
}

// Options configures how a table is opened
type Options struct {
	// Delimiter overrides the delimited text separator
	Delimiter rune
}

// Option modifies Options
type Option func(o *Options)

// WithDelimiter sets the separator for delimited text tables
func WithDelimiter(d rune) Option {
	return func(o *Options) {
		o.Delimiter = d
	}
}

// Format names the table backend chosen for a path
type Format string

const (
	ROOT   Format = "root"
	SQLite Format = "sqlite"
	CSV    Format = "csv"
)

// FormatOf picks the backend from the file extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".root":
		return ROOT, nil
	case ".db", ".sqlite", ".sqlite3":
		return SQLite, nil
	case ".csv", ".tsv", ".txt":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// NeedsTableName reports whether the format stores more than one table per file
func (f Format) NeedsTableName() bool {
	return f != CSV
}

// Open opens the named table in the file at path
func Open(ctx context.Context, path, table string, opts ...Option) (Table, error) {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if format.NeedsTableName() && table == "" {
		return nil, fmt.Errorf("a table name is required for %s files", format)
	}
	switch format {
	case ROOT:
		return openROOT(path, table)
	case SQLite:
		return openSQLite(ctx, path, table)
	default:
		if o.Delimiter == 0 {
			o.Delimiter = ','
			if strings.ToLower(filepath.Ext(path)) == ".tsv" {
				o.Delimiter = '\t'
			}
		}
		return openCSV(path, table, o.Delimiter)
	}
}

// indexColumns maps each requested column to its position in have
func indexColumns(table string, have []string, want []string) ([]int, error) {
	pos := make(map[string]int, len(have))
	for i, c := range have {
		if _, ok := pos[c]; !ok {
			pos[c] = i
		}
	}
	idx := make([]int, len(want))
	for i, c := range want {
		p, ok := pos[c]
		if !ok {
			return nil, &ColumnError{Table: table, Column: c}
		}
		idx[i] = p
	}
	return idx, nil
}
