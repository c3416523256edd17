// Package main - Entry point for the gear-cost HTTP server
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"gear-cost/internal/app"
	"gear-cost/internal/config"
	"gear-cost/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgFile := pflag.String("config", "", "config file")
	addr := pflag.String("addr", "", "server address (overrides config)")
	pflag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("gear-cost server starting", zap.String("version", version), zap.String("addr", cfg.Server.Addr))
	if err := app.Serve(ctx, cfg, version); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
