package telemetry

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tablehive/backoffice/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	buildInfo prometheus.Gauge
}

// Attach configures telemetry exporters and returns a provider handle.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	buildInfo := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "backoffice",
		Name:      "service_info",
		Help:      "Static service information.",
		ConstLabels: prometheus.Labels{
			"service": serviceName,
			"env":     cfg.App.Env,
		},
	})
	buildInfo.Set(1)

	return &Provider{buildInfo: buildInfo}, nil
}
