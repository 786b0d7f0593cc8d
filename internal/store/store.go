// Package store provides read-only access to the ranked full-text index.
// The index is a SQLite database built out of band: an items table holding
// display fields and a numeric qrank, plus two FTS5 tables (a popular subset
// and the full set) keyed by the items rowid. This package never writes to it.
package store

import (
	"encoding/json"
	"errors"
)

var (
	// ErrInvalidQuery indicates FTS5 rejected the match expression.
	// The engine is the source of truth for what is malformed.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIndexUnavailable indicates the index could not be opened or queried:
	// a missing file, a corrupt database, or missing tables.
	ErrIndexUnavailable = errors.New("index unavailable")
)

// Default table names used by the offline index builder.
const (
	DefaultItemsTable   = "items"
	DefaultPopularTable = "fts_popular"
	DefaultFullTable    = "fts"
)

// RankColumn is the items column used as the sole sort key.
const RankColumn = "qrank"

// Item is a single result row keyed by column name. Keying by name keeps the
// JSON shape stable when the index schema reorders or adds columns.
type Item map[string]any

// Rank returns the item's qrank as a float64, or 0 if absent or non-numeric.
func (i Item) Rank() float64 {
	switch v := i[RankColumn].(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Name returns the item's name field, or "" if absent.
func (i Item) Name() string {
	s, _ := i["name"].(string)
	return s
}

// Tables names the three tables the index exposes.
type Tables struct {
	Items   string // primary records with display fields and qrank
	Popular string // FTS5 over the high-rank subset
	Full    string // FTS5 over every item
}

// DefaultTables returns the table names produced by the index builder.
func DefaultTables() Tables {
	return Tables{
		Items:   DefaultItemsTable,
		Popular: DefaultPopularTable,
		Full:    DefaultFullTable,
	}
}

// LookupOptions configures a ranked lookup.
type LookupOptions struct {
	Table   string  // FTS5 table to match against
	Match   string  // FTS5 match expression
	Limit   int     // maximum rows; must be positive
	MinRank float64 // rows with qrank below this are excluded when HasMin is set
	HasMin  bool
}

// WithFloor returns a copy of o that excludes rows ranked below floor.
func (o LookupOptions) WithFloor(floor float64) LookupOptions {
	o.MinRank = floor
	o.HasMin = true
	return o
}

// MarshalJSON encodes a value with indentation for human-readable output.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
