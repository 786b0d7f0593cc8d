/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// invoke.go implements "suggest invoke", which replays a single trigger
// event read from stdin and prints the response the platform would receive.

package cmd

import (
	"github.com/jpl-au/suggest/internal/invoke"
	"github.com/spf13/cobra"
)

var invokeCmd = &cobra.Command{
	Use:   "invoke",
	Short: "Handle one trigger event from stdin",
	Long: `Read a function URL event as JSON from stdin, resolve its q parameter,
and print the response object.

  echo '{"queryStringParameters":{"q":"yose"}}' | suggest invoke

Resolver failures are returned as errors (exit 1), as the platform would
see them.`,
	Args: cobra.NoArgs,
	RunE: runInvoke,
}

func init() {
	rootCmd.AddCommand(invokeCmd)
}

func runInvoke(c *cobra.Command, _ []string) error {
	req, err := invoke.DecodeEvent(c.InOrStdin())
	if err != nil {
		return PrintJSONError(err)
	}

	resp, err := invoke.New(svc.Resolver, "cli:invoke").Invoke(c.Context(), req)
	if err != nil {
		return PrintJSONError(err)
	}
	return invoke.EncodeResponse(Out(), resp)
}
