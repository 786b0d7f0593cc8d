// Package storetest builds small index databases for tests. It mirrors the
// shape the offline builder produces: an items table with display fields and
// qrank, and two FTS5 tables over name sharing the items rowid.
package storetest

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jpl-au/suggest/internal/store"

	_ "modernc.org/sqlite"
)

// Item is a fixture row.
type Item struct {
	Name    string
	State   string
	QRank   int64
	Popular bool // also indexed in the popular table
}

// Build writes a fixture index into a temp directory and returns its path.
func Build(t *testing.T, items []Item) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "autosuggest.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	tables := store.DefaultTables()
	_, err = db.Exec(`
		CREATE TABLE ` + tables.Items + ` (
			osm_id INTEGER NOT NULL,
			name   TEXT NOT NULL,
			state  TEXT,
			qrank  INTEGER NOT NULL
		);
		CREATE VIRTUAL TABLE ` + tables.Popular + ` USING fts5(name);
		CREATE VIRTUAL TABLE ` + tables.Full + ` USING fts5(name);
	`)
	require.NoError(t, err)

	tx, err := db.Begin()
	require.NoError(t, err)
	for i, it := range items {
		res, err := tx.Exec(`INSERT INTO `+tables.Items+` (osm_id, name, state, qrank) VALUES (?, ?, ?, ?)`,
			1000+i, it.Name, nullIfEmpty(it.State), it.QRank)
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)

		_, err = tx.Exec(`INSERT INTO `+tables.Full+` (rowid, name) VALUES (?, ?)`, id, it.Name)
		require.NoError(t, err)
		if it.Popular {
			_, err = tx.Exec(`INSERT INTO `+tables.Popular+` (rowid, name) VALUES (?, ?)`, id, it.Name)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tx.Commit())

	return path
}

// Open builds a fixture index and opens it read-only. The store is closed
// when the test ends.
func Open(t *testing.T, items []Item) *store.SQLiteStore {
	t.Helper()

	path := Build(t, items)
	s, err := store.Open(t.Context(), path, store.DefaultTables())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
