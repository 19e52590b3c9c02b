// Package telemetry exports the otel metrics recorded by the scraper,
// filter and upload stages over OTLP/HTTP.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Config struct {
	MetricsEndpoint string
	Headers         map[string]string
	Interval        time.Duration
}

type ShutdownFunc func(ctx context.Context) error

// The service attributes carry no schema URL so they merge with whatever
// schema the SDK detectors report.
func newResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
}

// Setup installs a global meter provider. Without an endpoint the otel
// no-op provider stays in place and the returned shutdown does nothing.
func Setup(ctx context.Context, serviceName string, cfg Config, logger *slog.Logger) (ShutdownFunc, error) {
	if cfg.MetricsEndpoint == "" {
		logger.Debug("metrics export disabled")
		return func(context.Context) error { return nil }, nil
	}

	r, err := newResource(ctx, serviceName)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exportCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	exporter, err := otlpmetrichttp.New(
		exportCtx,
		otlpmetrichttp.WithEndpointURL(cfg.MetricsEndpoint),
		otlpmetrichttp.WithHeaders(cfg.Headers),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	provider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(interval))),
		metric.WithResource(r),
	)
	otel.SetMeterProvider(provider)

	logger.Info("metric exporter initialized",
		"type", "http",
		"endpoint", cfg.MetricsEndpoint,
		"headers", len(cfg.Headers) > 0,
	)

	return provider.Shutdown, nil
}
