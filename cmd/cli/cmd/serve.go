// Package cmd - serve command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gear-cost/internal/app"
	"gear-cost/internal/config"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the deficit calculator over HTTP",
	Long: `Start the HTTP API.

Endpoints:
  POST /deficit   calculate a deficit report (?format=json|csv|markdown|table)
  GET  /tiers     tier ladder
  GET  /bundles   bundle catalog (?category=NAME)
  GET  /layout    gear parts, tracked resources and shop layout
  GET  /health    liveness and reference data summary
  GET  /version   version information
  GET  /metrics   Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return app.Serve(ctx, cfg, Version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
