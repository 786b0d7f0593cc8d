/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// stats.go implements "suggest stats", a summary of the open index.
//
// Useful when tuning search.popular_threshold and search.floor: it shows how
// many items each table holds and how many clear the configured floor.

package cmd

import (
	"errors"
	"fmt"

	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index row counts and qrank range",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(c *cobra.Command, _ []string) error {
	st, ok := svc.Index.(store.Stater)
	if !ok {
		return PrintJSONError(errors.New("index does not report statistics"))
	}

	s, err := st.Stats(c.Context(), cfg.Floor())
	log.Event("cli:stats", "stats").Write(err)
	if err != nil {
		return PrintJSONError(fmt.Errorf("stats: %w", err))
	}

	if JSON() {
		return PrintJSON(s)
	}

	t := svc.Index.Tables()
	fmt.Fprintf(Out(), "index: %s\n", cfg.IndexPath())
	fmt.Fprintf(Out(), "%s: %d\n", t.Items, s.Items)
	fmt.Fprintf(Out(), "%s: %d\n", t.Popular, s.Popular)
	fmt.Fprintf(Out(), "%s: %d\n", t.Full, s.Full)
	fmt.Fprintf(Out(), "qrank: %s .. %s\n", fmtFloat(s.MinRank), fmtFloat(s.MaxRank))
	fmt.Fprintf(Out(), "floor: %d items at or above %s\n", s.AtFloor, fmtFloat(cfg.Floor()))
	return nil
}
