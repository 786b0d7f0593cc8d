// stats.go implements aggregate queries for operational visibility.
//
// These never touch the FTS match path. They report how large the index is
// and the qrank spread, which is what an operator needs to pick a popular
// threshold or a rank floor.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Stats summarises the index.
type Stats struct {
	Items   int64   `json:"items"`
	Popular int64   `json:"popular"`
	Full    int64   `json:"full"`
	MinRank float64 `json:"min_rank"`
	MaxRank float64 `json:"max_rank"`
	// AtFloor is the number of items with qrank at or above the floor
	// passed to Stats.
	AtFloor int64 `json:"at_floor"`
}

// Stats counts rows in each table and reports the qrank range. floor sets
// the threshold for AtFloor.
func (s *SQLiteStore) Stats(ctx context.Context, floor float64) (Stats, error) {
	var st Stats

	for _, c := range []struct {
		table string
		dst   *int64
	}{
		{s.tables.Items, &st.Items},
		{s.tables.Popular, &st.Popular},
		{s.tables.Full, &st.Full},
	} {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table).Scan(c.dst); err != nil {
			return Stats{}, fmt.Errorf("count %s: %w", c.table, classify(err))
		}
	}

	var lo, hi sql.NullFloat64
	q := fmt.Sprintf(`SELECT MIN(%[1]s), MAX(%[1]s), COUNT(CASE WHEN %[1]s >= ? THEN 1 END) FROM %[2]s`,
		RankColumn, s.tables.Items)
	if err := s.db.QueryRowContext(ctx, q, floor).Scan(&lo, &hi, &st.AtFloor); err != nil {
		return Stats{}, fmt.Errorf("rank range: %w", classify(err))
	}
	st.MinRank = lo.Float64
	st.MaxRank = hi.Float64
	return st, nil
}
