package main

import (
	"context"

	"github.com/tournevent/alopeyk/internal/config"
	"github.com/tournevent/alopeyk/internal/telemetry"
	"github.com/tournevent/alopeyk/pkg/alopeyk"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.sandbox {
		cfg.Environment = config.EnvSandbox
	}
	return cfg, nil
}

// initTracer returns a nil tracer when tracing is disabled; the client then
// falls back to the global provider.
func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.Attributes()...)
}

func initClient(cfg *config.Config, opts *globalOptions, logger *otelzap.Logger, tracer trace.Tracer) *alopeyk.Client {
	client := alopeyk.New(cfg.AloPeyk(), logger, tracer)
	if opts.token != "" {
		client.SetToken(opts.token)
	}
	return client
}
