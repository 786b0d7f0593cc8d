// search.go implements the two queries the resolver issues against FTS5.
//
// Separated from sqlite_ops.go because these carry the query semantics:
// FTS5 matching on the name column, a rowid join back to the items table,
// and ordering by qrank. Connection handling lives elsewhere.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Count returns the number of rows in table whose name matches the FTS5
// expression. Used by the tiered strategy to probe the popular index.
func (s *SQLiteStore) Count(ctx context.Context, table, match string) (int64, error) {
	if !ValidTableName(table) {
		return 0, fmt.Errorf("%w: invalid table name %q", ErrIndexUnavailable, table)
	}

	q := `SELECT count(*) FROM ` + table + ` WHERE ` + table + `.name MATCH ?`

	var n int64
	if err := s.db.QueryRowContext(ctx, q, match).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Lookup matches opts.Match against opts.Table, joins each hit to the items
// table by rowid, and returns up to opts.Limit rows ordered by qrank
// descending. Ties keep whatever order SQLite produces.
func (s *SQLiteStore) Lookup(ctx context.Context, opts LookupOptions) ([]Item, error) {
	if !ValidTableName(opts.Table) {
		return nil, fmt.Errorf("%w: invalid table name %q", ErrIndexUnavailable, opts.Table)
	}
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("lookup limit must be positive, got %d", opts.Limit)
	}

	items := s.tables.Items
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT %[1]s.* FROM %[1]s
		JOIN %[2]s ON %[2]s.rowid = %[1]s.rowid
		WHERE %[2]s.name MATCH ?`, items, opts.Table)

	args := []any{opts.Match}
	if opts.HasMin {
		fmt.Fprintf(&b, ` AND %s.%s >= ?`, items, RankColumn)
		args = append(args, opts.MinRank)
	}
	fmt.Fprintf(&b, ` ORDER BY %s.%s DESC LIMIT ?`, items, RankColumn)
	args = append(args, opts.Limit)

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	result, err := scanItems(rows)
	if err != nil {
		return nil, classify(err)
	}
	return result, nil
}

// scanItems converts rows into name-keyed items. TEXT columns may arrive as
// []byte depending on declared type; they are normalised to string so the
// JSON encoding is text rather than base64.
func scanItems(rows *sql.Rows) ([]Item, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []Item{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		item := make(Item, len(cols))
		for i, c := range cols {
			if b, ok := vals[i].([]byte); ok {
				item[c] = string(b)
				continue
			}
			item[c] = vals[i]
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
