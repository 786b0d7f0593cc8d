/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// config.go implements "suggest config" for configuration management.
//
// Design: Config follows a cascade model similar to git: local config
// (.suggest/config.yaml) takes precedence over global (~/.suggest/config.yaml).
// The --local flag forces use of local config even if it doesn't exist yet.
// An explicit --config file overrides both.

package cmd

import (
	"fmt"
	"slices"

	"github.com/jpl-au/suggest/internal/config"
	"github.com/jpl-au/suggest/internal/log"
	"github.com/spf13/cobra"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or set config values",
	Long: `View or set config values.

  suggest config                        # show config
  suggest config search.strategy        # show one value
  suggest config search.strategy floor  # set a value

Configuration locations:
  Global: ~/.suggest/config.yaml
  Local:  .suggest/config.yaml

Uses local config if it exists, otherwise global.
Writes go to the same place reads come from.`,
	Args: cobra.MaximumNArgs(2),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.ValidKeys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configLocal, "local", false, "Use local config (.suggest/config.yaml)")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, args []string) error {
	// The root pre-run config has env and flag overrides applied; editing
	// needs the file as written.
	var c *config.Config
	var err error
	switch {
	case configFile != "":
		c, err = config.LoadFile(configFile)
	case configLocal:
		c, err = config.LoadScope(config.ScopeLocal)
	default:
		c, err = config.Load()
	}
	if err != nil {
		return PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if c.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		all := c.All()
		if JSON() {
			return PrintJSON(all)
		}
		keys := config.ValidKeys()
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(Out(), "%s: %s\n", k, all[k])
		}
		log.Event("cli:config", "list").Write(nil)

	case 1:
		v, err := c.Get(args[0])
		log.Event("cli:config", "get").Detail("key", args[0]).Write(err)
		if err != nil {
			return PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if JSON() {
			return PrintJSON(map[string]string{args[0]: v})
		}
		fmt.Fprintln(Out(), v)

	case 2:
		if err := c.Set(args[0], args[1]); err != nil {
			log.Event("cli:config", "set").Detail("key", args[0]).Write(err)
			return PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}

		saveErr := c.Save()
		log.Event("cli:config", "set").Detail("key", args[0]).Detail("scope", scopeName).Write(saveErr)
		if saveErr != nil {
			return PrintJSONError(fmt.Errorf("config save: %w", saveErr))
		}
		fmt.Fprintf(Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
	}
	return nil
}
