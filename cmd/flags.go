/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Separated from root.go to isolate flag definitions from command logic.
//
// Design: Flags are package-level variables bound to the root command.
// Config resolution layers them last: config file, then SUGGEST_* env vars,
// then explicit flags.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/suggest/internal/config"
	"github.com/spf13/cobra"
)

var validOutputFormats = []string{"json"}

var (
	output     string
	indexPath  string
	strategy   string
	configFile string
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// Out returns the output writer.
func Out() io.Writer { return out }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// JSON returns true if JSON output is requested.
func JSON() bool { return output == "json" }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if output != "json" {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if output is JSON, and
// still returns it so the process exits non-zero.
func PrintJSONError(err error) error {
	if output != "json" || err == nil {
		return err
	}
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return err
}

// loadConfig resolves configuration: --config file (or the local/global
// cascade), then environment, then flags.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if indexPath != "" {
		if err := cfg.Set("index.path", indexPath); err != nil {
			return nil, err
		}
	}
	if strategy != "" {
		if err := cfg.Set("search.strategy", strategy); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format: json")
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "Index database path (default autosuggest.db, env SUGGEST_INDEX)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "Search strategy: tiered or floor (env SUGGEST_STRATEGY)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default .suggest/config.yaml, then ~/.suggest/config.yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return validOutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("strategy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.ValidStrategies, cobra.ShellCompDirectiveNoFileComp
	})
}
