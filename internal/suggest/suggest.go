// Package suggest turns a raw autosuggest query into a bounded, ranked list
// of items from the full-text index.
//
// Two strategies exist for choosing which FTS5 table to search:
//
//   - Tiered probes the popular table with a count. If it holds at least
//     PopularThreshold matches the popular table serves the request,
//     otherwise the full table does. Broad queries surface well-known items;
//     narrow ones still find something.
//   - Floor always searches the full table but drops items whose qrank is
//     below Floor.
//
// Both order by qrank descending and cap at Limit rows.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpl-au/suggest/internal/store"
)

// Strategy selects how the resolver picks a table.
type Strategy string

const (
	Tiered Strategy = "tiered"
	Floor  Strategy = "floor"
)

// ParseStrategy converts a config or flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case Tiered:
		return Tiered, nil
	case Floor:
		return Floor, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (valid: tiered, floor)", s)
	}
}

// Options configures a Resolver. An empty Strategy or non-positive Limit
// falls back to the default and a Limit above MaxLimit is capped; thresholds
// are taken as given.
type Options struct {
	Strategy         Strategy
	Limit            int
	PopularThreshold int64
	Floor            float64
}

// MaxLimit is the most items any query returns.
const MaxLimit = 10

// Defaults matching the deployed autosuggest endpoint.
const (
	DefaultLimit            = MaxLimit
	DefaultPopularThreshold = 100
	DefaultFloor            = 10
)

// DefaultOptions returns the tiered strategy with its production thresholds.
func DefaultOptions() Options {
	return Options{
		Strategy:         Tiered,
		Limit:            DefaultLimit,
		PopularThreshold: DefaultPopularThreshold,
		Floor:            DefaultFloor,
	}
}

// Resolver resolves queries against an index. It holds no per-request state
// and is safe for concurrent use if the index is.
type Resolver struct {
	idx  store.Index
	opts Options
}

// Resolution describes how a query was served.
type Resolution struct {
	Match        string       // FTS5 expression sent to the index
	Table        string       // table that served the lookup; empty if none
	PopularCount int64        // popular-table hit count (tiered only)
	Items        []store.Item // ranked results, never nil
}

// New creates a Resolver over idx.
func New(idx store.Index, opts Options) *Resolver {
	if opts.Strategy == "" {
		opts.Strategy = Tiered
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	opts.Limit = min(opts.Limit, MaxLimit)
	return &Resolver{idx: idx, opts: opts}
}

// Options returns the resolver's effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Normalize collapses whitespace runs, trims the ends, and wraps the text as
// an FTS5 phrase-prefix expression: `foo  bar ` becomes `"foo bar"*`.
// Empty input returns "".
func Normalize(raw string) string {
	text := strings.Join(strings.Fields(raw), " ")
	if text == "" {
		return ""
	}
	return `"` + text + `"*`
}

// Resolve returns up to Limit items matching raw, ordered by qrank
// descending. Empty or whitespace-only input returns an empty result without
// touching the index.
func (r *Resolver) Resolve(ctx context.Context, raw string) ([]store.Item, error) {
	res, err := r.ResolveDetail(ctx, raw)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// ResolveDetail is Resolve plus the routing decision, for logging and metrics.
// Errors wrap store.ErrInvalidQuery or store.ErrIndexUnavailable.
func (r *Resolver) ResolveDetail(ctx context.Context, raw string) (Resolution, error) {
	res := Resolution{Match: Normalize(raw), Items: []store.Item{}}
	if res.Match == "" {
		return res, nil
	}

	tables := r.idx.Tables()
	opts := store.LookupOptions{Match: res.Match, Limit: r.opts.Limit}

	switch r.opts.Strategy {
	case Floor:
		opts.Table = tables.Full
		opts = opts.WithFloor(r.opts.Floor)
	default:
		n, err := r.idx.Count(ctx, tables.Popular, res.Match)
		if err != nil {
			return res, fmt.Errorf("count %s: %w", tables.Popular, err)
		}
		res.PopularCount = n
		opts.Table = tables.Full
		if n >= r.opts.PopularThreshold {
			opts.Table = tables.Popular
		}
	}

	items, err := r.idx.Lookup(ctx, opts)
	if err != nil {
		return res, fmt.Errorf("lookup %s: %w", opts.Table, err)
	}
	res.Table = opts.Table
	if items != nil {
		res.Items = items
	}
	return res, nil
}
