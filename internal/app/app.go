// Package app wires configuration, reference data, the engine and the HTTP
// server together for the command line entry points.
package app

import (
	"context"

	"go.uber.org/zap"

	"gear-cost/api"
	"gear-cost/core/deficit"
	"gear-cost/core/refdata"
	"gear-cost/internal/config"
	"gear-cost/internal/logging"
	"gear-cost/internal/metrics"
)

// LoadReference reads the reference tables named by cfg
func LoadReference(cfg *config.Config) (*refdata.Reference, error) {
	ref, err := refdata.Load(cfg.Data.Ladder, cfg.Data.Catalog)
	if err != nil {
		return nil, err
	}
	log := logging.Named("refdata")
	log.Debug("reference data loaded",
		zap.String("ladder", ref.Source.Ladder),
		zap.String("catalog", ref.Source.Catalog),
		zap.Int("tiers", ref.Ladder.Len()),
		zap.Int("bundles", ref.Catalog.Len()))
	for _, w := range ref.Warnings() {
		log.Debug("reference data warning", zap.String("warning", w))
	}
	return ref, nil
}

// NewEngine loads reference data and builds an engine over it
func NewEngine(cfg *config.Config, opts ...deficit.Option) (*deficit.Engine, error) {
	ref, err := LoadReference(cfg)
	if err != nil {
		return nil, err
	}
	opts = append([]deficit.Option{deficit.WithLogger(logging.Named("deficit"))}, opts...)
	return deficit.New(ref, opts...)
}

// NewServer builds the API server described by cfg
func NewServer(cfg *config.Config, version string) (*api.Server, error) {
	collector, err := metrics.New()
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(cfg, deficit.WithRecorder(collector))
	if err != nil {
		return nil, err
	}
	return api.NewServer(engine,
		api.WithVersion(version),
		api.WithLogger(logging.Logger),
		api.WithMetrics(collector),
		api.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
		api.WithGzip(cfg.Server.Gzip),
		api.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	), nil
}

// Serve runs the API server until ctx is cancelled
func Serve(ctx context.Context, cfg *config.Config, version string) error {
	srv, err := NewServer(cfg, version)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
