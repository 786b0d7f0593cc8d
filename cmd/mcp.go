/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"github.com/jpl-au/suggest/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start an MCP (Model Context Protocol) server over stdio exposing a
"suggest" tool backed by the index.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.Serve(svc.Resolver)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
