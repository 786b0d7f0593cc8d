/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// serve.go implements "suggest serve", the HTTP trigger.
//
// Unlike other commands that run and exit, serve blocks until SIGINT or
// SIGTERM, then drains in-flight requests.

package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jpl-au/suggest/internal/httpapi"
	"github.com/jpl-au/suggest/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the autosuggest endpoint over HTTP",
	Long: `Serve the autosuggest endpoint over HTTP.

  GET /?q=yose          JSON array of up to 10 items
  GET /suggest?q=yose   same
  GET /healthz          liveness
  GET /metrics          prometheus metrics

Listen address comes from --addr, then http.addr in config (default :8080).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(c *cobra.Command, _ []string) error {
	l, err := logger.New(cfg.LogEnv(), cfg.LogLevel())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	addr := cfg.Addr()
	if serveAddr != "" {
		addr = serveAddr
	}

	l.Info("starting suggest",
		zap.String("index", cfg.IndexPath()),
		zap.String("strategy", cfg.Strategy()),
		zap.Int("limit", cfg.Limit()),
	)

	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := httpapi.NewServer(svc.Resolver, l, httpapi.Options{
		Addr:        addr,
		AllowOrigin: cfg.HTTP.AllowOrigin,
	})
	return s.ListenAndServe(ctx)
}
