// Package log provides centralised audit logging for suggest queries.
// Logs are stored in ~/.suggest/log/suggest-log.db and record every query
// served by the CLI, the HTTP trigger, and the MCP server.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("cli:search", "search").
//		Query(q).
//		Table(res.Table).
//		Count(len(res.Items)).
//		Write(err)
//
// The source parameter follows the format "{surface}:{command}", for example
// "cli:search", "http:suggest", "mcp:suggest".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DisableEnv, when set to any non-empty value, turns Open into a no-op.
// Useful where the home directory is read-only.
const DisableEnv = "SUGGEST_NO_AUDIT"

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source string // e.g., "cli:search", "http:suggest"
	Action string // verb: search, config, serve
	Query  string // raw query as received
	Table  string // FTS table that served the query
	Count  int    // number of results returned

	Start int64 // unix milliseconds when Event() called
	End   int64 // unix milliseconds when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().UnixMilli(),
		},
	}
}

// Query sets the raw query string.
func (b *Builder) Query(q string) *Builder {
	b.entry.Query = q
	return b
}

// Table sets the table that served the query.
func (b *Builder) Table(t string) *Builder {
	b.entry.Table = t
	return b
}

// Count sets the number of results returned.
func (b *Builder) Count(n int) *Builder {
	b.entry.Count = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().UnixMilli()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil || os.Getenv(DisableEnv) != "" {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}
	// Concurrent HTTP requests write entries; wait for the lock rather than fail.
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetIndex sets the index identifier for subsequent log entries.
// The path should be the index database path as configured.
func SetIndex(path string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		global.index = hash(path)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
