// sqlite_ops.go provides SQLite connection management and error classification.
//
// This is the only file that imports the SQLite driver. The index is opened
// read-only: mode=ro at the VFS level and query_only as a pragma, so no code
// path in this process can modify it even by accident.
//
// Design: database/sql pools connections, and SQLite permits any number of
// concurrent readers on a read-only file, so a single *SQLiteStore is shared
// across all requests without locking.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"modernc.org/sqlite"
)

// SQLiteStore implements Index over a read-only SQLite FTS5 database.
type SQLiteStore struct {
	db     *sql.DB
	tables Tables
}

var _ Index = (*SQLiteStore)(nil)

// identRe restricts table names to plain SQL identifiers. Table names are
// interpolated into queries, so anything else is rejected up front.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidTableName reports whether name is safe to interpolate as a table name.
func ValidTableName(name string) bool {
	return identRe.MatchString(name)
}

// Open opens the index at path read-only and verifies the expected tables
// exist. Failure here is meant to be fatal at startup: every error wraps
// ErrIndexUnavailable.
func Open(ctx context.Context, path string, tables Tables) (*SQLiteStore, error) {
	for _, t := range []string{tables.Items, tables.Popular, tables.Full} {
		if !ValidTableName(t) {
			return nil, fmt.Errorf("%w: invalid table name %q", ErrIndexUnavailable, t)
		}
	}

	// mode=ro does not create missing files, but the driver only notices on
	// first use. Check here so the error names the path.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIndexUnavailable, path, err)
	}

	s := &SQLiteStore{db: db, tables: tables}
	if err := s.verify(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// dsn builds a read-only URI filename for the modernc driver.
func dsn(path string) string {
	return "file:" + path + "?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)"
}

// verify checks that all three tables exist. A corrupt file fails here too,
// since reading sqlite_master touches the database header.
func (s *SQLiteStore) verify(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name IN (?, ?, ?)`,
		s.tables.Items, s.tables.Popular, s.tables.Full)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	defer rows.Close()

	found := make(map[string]bool, 3)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}

	var missing []string
	for _, t := range []string{s.tables.Items, s.tables.Popular, s.tables.Full} {
		if !found[t] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing tables: %s", ErrIndexUnavailable, strings.Join(missing, ", "))
	}
	return nil
}

// Tables reports the table names this store was opened with.
func (s *SQLiteStore) Tables() Tables {
	return s.tables
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for diagnostics.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// classify maps a driver error onto the package's sentinel errors.
// FTS5 reports malformed expressions as plain SQLITE_ERROR, so the message
// text is the only reliable signal.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) && isSyntaxError(se.Error()) {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	return fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
}

func isSyntaxError(msg string) bool {
	return strings.Contains(msg, "fts5:") || strings.Contains(msg, "unterminated string")
}
