package telemetry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	shutdown, err := Setup(context.Background(), "content_syncer", Config{}, logger)
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestNewResource(t *testing.T) {
	r, err := newResource(context.Background(), "content_syncer")
	require.NoError(t, err)

	name, ok := r.Set().Value("service.name")
	require.True(t, ok)
	require.Equal(t, "content_syncer", name.AsString())
}

func TestRegisterProcessGauges(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	reg, err := RegisterProcessGauges(provider, logger)
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Equal(t, processMeter, rm.ScopeMetrics[0].Scope.Name)

	values := make(map[string]int64)
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if g, ok := m.Data.(metricdata.Gauge[int64]); ok && len(g.DataPoints) > 0 {
			values[m.Name] = g.DataPoints[0].Value
		}
	}
	require.Positive(t, values["syncer.process.heap"])
	require.Positive(t, values["syncer.process.goroutines"])

	require.NoError(t, reg.Unregister())
}
