package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/roach88/sieve/internal/rows"
)

// RowFunc receives each scanned row. Returning an error stops the scan and
// the error is returned from Scan.
type RowFunc func(row *rows.MapRow) error

// Scan reads every row of table in storage order and passes it to fn.
// Column names become field names; lookups on the rows are
// case-insensitive like SQLite identifiers.
func (s *Store) Scan(ctx context.Context, table string, fn RowFunc) error {
	tables, err := s.Tables(ctx)
	if err != nil {
		return err
	}
	// SQLite identifiers ignore case; scan under the stored name.
	i := slices.IndexFunc(tables, func(name string) bool {
		return strings.EqualFold(name, table)
	})
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNoSuchTable, table)
	}
	table = tables[i]

	n, err := s.ScanQuery(ctx, fn, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return err
	}
	slog.Debug("scanned table", "table", table, "rows", n)
	return nil
}

// ScanQuery runs a SELECT statement and passes each result row to fn. It
// returns the number of rows delivered.
func (s *Store) ScanQuery(ctx context.Context, fn RowFunc, query string, args ...any) (int, error) {
	res, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query rows: %w", err)
	}
	defer res.Close()

	cols, err := res.Columns()
	if err != nil {
		return 0, fmt.Errorf("read columns: %w", err)
	}

	n := 0
	for res.Next() {
		row, err := scanRow(res, cols)
		if err != nil {
			return n, err
		}
		if err := fn(row); err != nil {
			return n, err
		}
		n++
	}
	if err := res.Err(); err != nil {
		return n, fmt.Errorf("iterate rows: %w", err)
	}
	return n, nil
}

// scanRow copies the current result row. go-sqlite3 yields int64, float64,
// string, []byte, bool, time.Time or nil, all of which ir.FromAny
// classifies.
func scanRow(res *sql.Rows, cols []string) (*rows.MapRow, error) {
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := res.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	row := rows.NewMapRow(nil)
	for i, col := range cols {
		row.Set(col, vals[i])
	}
	return row, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
