// interfaces.go defines the read-only index abstraction.
//
// Separated from the SQLite implementation so the resolver can be tested
// against fakes and so callers depend only on the two queries they issue.

package store

import "context"

// Counter counts matches without materialising rows.
type Counter interface {
	// Count returns the number of rows in table matching the FTS5 expression.
	Count(ctx context.Context, table, match string) (int64, error)
}

// Looker performs ranked lookups joined back to the items table.
type Looker interface {
	// Lookup returns at most opts.Limit items ordered by qrank descending.
	Lookup(ctx context.Context, opts LookupOptions) ([]Item, error)
}

// Index is the full read-only surface of the ranked full-text index.
type Index interface {
	Counter
	Looker

	// Tables reports the table names this index was opened with.
	Tables() Tables

	// Close releases the database handle.
	Close() error
}

// Stater reports aggregate index statistics. SQLiteStore implements it;
// callers type-assert since the resolver never needs it.
type Stater interface {
	Stats(ctx context.Context, floor float64) (Stats, error)
}
