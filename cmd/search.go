/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// search.go implements "suggest search", the local entry point.
//
// The arguments joined with spaces are the raw query, so quoting is not
// needed: "suggest search yose val" and "suggest search 'yose val'" match
// the same items. Terminal output gets a glamour-rendered table; pipes get
// plain lines; -o json prints the same array the HTTP trigger returns.

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Resolve a query and print the top matches",
	Long: `Resolve a query against the index and print the top matches by qrank.

  suggest search yosemite          # items starting with "yosemite"
  suggest search glacier point -o json
  suggest search --strategy floor half dome`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(c *cobra.Command, args []string) error {
	q := strings.Join(args, " ")
	res, err := svc.Resolver.ResolveDetail(c.Context(), q)

	log.Event("cli:search", "search").Query(q).Table(res.Table).Count(len(res.Items)).Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("search %q: %w", q, err))
	}

	if JSON() {
		return PrintJSON(res.Items)
	}

	if isTerminal(Out()) {
		rendered, renderErr := glamour.Render(resultsMarkdown(q, res.Items), "dark")
		if renderErr == nil {
			fmt.Fprint(Out(), rendered)
			return nil
		}
	}

	for _, it := range res.Items {
		fmt.Fprintf(Out(), "%s\t%s\n", it.Name(), formatRank(it))
	}
	return nil
}

// resultsMarkdown renders items as a markdown table for terminal display.
func resultsMarkdown(q string, items []store.Item) string {
	var b bytes.Buffer
	if len(items) == 0 {
		fmt.Fprintf(&b, "No matches for `%s`.\n", q)
		return b.String()
	}
	b.WriteString("| # | Name | qrank |\n|---|------|-------|\n")
	for i, it := range items {
		name := strings.ReplaceAll(it.Name(), "|", `\|`)
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, name, formatRank(it))
	}
	return b.String()
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func formatRank(it store.Item) string {
	return fmtFloat(it.Rank())
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
