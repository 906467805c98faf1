package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/app"
	"tableflip.dev/plantdash/pkg/commands/options"
	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/logging"
	"tableflip.dev/plantdash/pkg/metrics"
)

// runtime is everything a command needs to talk to the backend.
type runtime struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	svc      *app.Service
}

func newRuntime(so *options.ServerOptions) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if so != nil {
		if err := so.Apply(cfg); err != nil {
			return nil, err
		}
	}
	return runtimeFor(cfg)
}

func runtimeFor(cfg *config.Config) (*runtime, error) {
	log, err := logging.New(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector("plantdash", reg)

	client, err := api.New(cfg.Server, api.WithLogger(log), api.WithMetrics(collector))
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", cfg.Server, err)
	}
	return &runtime{
		cfg:      cfg,
		log:      log,
		registry: reg,
		metrics:  collector,
		svc:      &app.Service{Backend: client, Routes: cfg.RouteStyle, Log: log},
	}, nil
}

func (r *runtime) Close() {
	_ = r.log.Sync()
}
