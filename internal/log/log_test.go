package log

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = orig
	})
}

func readDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", DBPath())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open and close", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		assert.FileExists(t, DBPath())
	})

	t.Run("log entry", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()

		SetIndex("/var/task/autosuggest.db")

		Event("cli:search", "search").
			Query("apple").
			Table("fts").
			Count(2).
			Detail("strategy", "tiered").
			Write(nil)

		db := readDB(t)
		var source, action, query, tbl, idx string
		var count, success int
		var detail string
		err := db.QueryRow(`SELECT source, action, query, tbl, count, success, idx, detail FROM log ORDER BY id DESC LIMIT 1`).
			Scan(&source, &action, &query, &tbl, &count, &success, &idx, &detail)
		require.NoError(t, err)
		assert.Equal(t, "cli:search", source)
		assert.Equal(t, "search", action)
		assert.Equal(t, "apple", query)
		assert.Equal(t, "fts", tbl)
		assert.Equal(t, 2, count)
		assert.Equal(t, 1, success)
		assert.Len(t, idx, 16)
		assert.JSONEq(t, `{"strategy":"tiered"}`, detail)
	})

	t.Run("log error entry", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()

		Event("http:suggest", "search").Query(`a"b`).Write(errors.New("invalid query"))

		db := readDB(t)
		var success int
		var errMsg string
		var tbl sql.NullString
		err := db.QueryRow(`SELECT success, error, tbl FROM log ORDER BY id DESC LIMIT 1`).Scan(&success, &errMsg, &tbl)
		require.NoError(t, err)
		assert.Equal(t, 0, success)
		assert.Equal(t, "invalid query", errMsg)
		assert.False(t, tbl.Valid)
	})

	t.Run("log without open is no-op", func(t *testing.T) {
		Close()
		Event("cli:search", "search").Query("x").Write(nil)
	})
}

func TestOpen_Disabled(t *testing.T) {
	useTempDB(t)
	t.Setenv(DisableEnv, "1")

	require.NoError(t, Open())
	assert.NoFileExists(t, DBPath())
	Event("cli:search", "search").Write(nil)
}

func TestHash(t *testing.T) {
	assert.Equal(t, hash("a"), hash("a"))
	assert.NotEqual(t, hash("a"), hash("b"))
	assert.Len(t, hash("anything"), 16)
}
