/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// Design: PersistentPreRunE resolves config and opens the index lazily -
// only commands that query it trigger the open. config and version work
// without an index present. The noIndexCommands map controls which commands
// skip the open.

package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/jpl-au/suggest/internal/config"
	"github.com/jpl-au/suggest/internal/log"
	"github.com/jpl-au/suggest/internal/service"
	"github.com/spf13/cobra"
)

// noIndexCommands lists commands that run without opening the index.
var noIndexCommands = map[string]bool{
	"config":     true,
	"version":    true,
	"help":       true,
	"completion": true,
	"suggest":    true, // bare root prints help
}

var (
	cfg *config.Config
	svc *service.Service
)

var rootCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Autosuggest over a ranked full-text index",
	Long: `Prefix search over a pre-built SQLite FTS5 index of ranked items.

Queries are matched as a phrase prefix and the top results by qrank are
returned. Run locally with "suggest search", or serve the HTTP trigger
with "suggest serve".`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if output != "" && !slices.Contains(validOutputFormats, output) {
			return fmt.Errorf("invalid output format: %s (valid: %v)", output, validOutputFormats)
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return PrintJSONError(fmt.Errorf("load config: %w", err))
		}

		if noIndexCommands[topLevelCmdName(cmd)] {
			return nil
		}

		svc, err = service.Get(cmd.Context(), cfg)
		if err != nil {
			return PrintJSONError(err)
		}
		return nil
	},
}

// topLevelCmdName returns the name of the top-level command (direct child of root).
func topLevelCmdName(cmd *cobra.Command) string {
	for cmd.HasParent() && cmd.Parent().HasParent() {
		cmd = cmd.Parent()
	}
	return cmd.Name()
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and closes the index before
// exit. Exit code 1 indicates error.
func Execute() {
	if err := log.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
	}
	defer log.Close()

	err := rootCmd.Execute()

	if closeErr := service.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "warning: closing index: %v\n", closeErr)
	}

	if err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
