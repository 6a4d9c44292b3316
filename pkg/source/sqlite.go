package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	_ "modernc.org/sqlite"
)

// busyTimeout bounds how long a locked database is retried before giving up
var busyTimeout = 30 * time.Second

type sqliteTable struct {
	db      *sql.DB
	name    string
	columns []string
}

func openSQLite(ctx context.Context, path, table string) (*sqliteTable, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	t := &sqliteTable{db: db, name: table}

	err = retryBusy(ctx, func() error {
		rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table)+" LIMIT 0")
		if err != nil {
			return err
		}
		defer rows.Close()
		t.columns, err = rows.Columns()
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load table %s: %w", table, err)
	}
	return t, nil
}

func (t *sqliteTable) Name() string {
	return t.name
}

func (t *sqliteTable) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *sqliteTable) Entries(ctx context.Context) (int64, error) {
	var n int64
	err := retryBusy(ctx, func() error {
		return t.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(t.name)).Scan(&n)
	})
	return n, err
}

func (t *sqliteTable) Scan(ctx context.Context, columns []string, fn ScanFunc) error {
	if _, err := indexColumns(t.name, t.columns, columns); err != nil {
		return err
	}
	sel := make([]string, len(columns))
	for i, c := range columns {
		sel[i] = quoteIdent(c)
	}
	if len(sel) == 0 {
		sel = []string{"1"}
	}
	query := "SELECT " + strings.Join(sel, ", ") + " FROM " + quoteIdent(t.name)

	var rows *sql.Rows
	err := retryBusy(ctx, func() error {
		var err error
		rows, err = t.db.QueryContext(ctx, query)
		return err
	})
	if err != nil {
		return err
	}
	defer rows.Close()

	raw := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range raw {
		dest[i] = &raw[i]
	}
	if len(dest) == 0 {
		var one int
		dest = []interface{}{&one}
	}
	values := make([]float64, len(columns))
	var entry int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		for i, v := range raw {
			values[i] = sqlValue(v)
		}
		if err := fn(entry, values); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		entry++
	}
	return rows.Err()
}

// sqlValue widens a cell to float64.  NULL and text that is not a number read as
// NaN, the same as in delimited text.
func sqlValue(v interface{}) float64 {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case []byte:
		return parseCell(string(x))
	case string:
		return parseCell(x)
	default:
		return math.NaN()
	}
}

func (t *sqliteTable) Close() error {
	return t.db.Close()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// retryBusy retries op with exponential backoff while SQLite reports the database
// as busy or locked.  Any other error stops the retry immediately.
func retryBusy(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = busyTimeout
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !isBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(b, ctx))
}

func isBusy(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy") || strings.Contains(msg, "database is busy")
}
