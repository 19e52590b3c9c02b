package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel/metric"
)

const processMeter = "content_syncer/process"

// RegisterProcessGauges reports the syncer process's own resource use each
// time the provider collects. Unregister the returned registration on
// shutdown.
func RegisterProcessGauges(provider metric.MeterProvider, logger *slog.Logger) (metric.Registration, error) {
	meter := provider.Meter(processMeter)

	cpuPercent, err := meter.Float64ObservableGauge("syncer.process.cpu",
		metric.WithDescription("CPU used by the syncer process since the previous collection"),
		metric.WithUnit("%"))
	if err != nil {
		return nil, fmt.Errorf("create cpu gauge: %w", err)
	}
	rss, err := meter.Int64ObservableGauge("syncer.process.rss",
		metric.WithDescription("Resident set size of the syncer process"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("create rss gauge: %w", err)
	}
	heap, err := meter.Int64ObservableGauge("syncer.process.heap",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("create heap gauge: %w", err)
	}
	goroutines, err := meter.Int64ObservableGauge("syncer.process.goroutines",
		metric.WithDescription("Live goroutines, including scrape and upload workers"))
	if err != nil {
		return nil, fmt.Errorf("create goroutine gauge: %w", err)
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Warn("process stats unavailable, reporting runtime stats only", "error", err)
		proc = nil
	}

	return meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		o.ObserveInt64(heap, int64(mem.HeapAlloc))
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))

		if proc == nil {
			return nil
		}
		if pct, err := proc.PercentWithContext(ctx, 0); err == nil {
			o.ObserveFloat64(cpuPercent, pct)
		} else {
			logger.Debug("failed to read process cpu", "error", err)
		}
		if info, err := proc.MemoryInfoWithContext(ctx); err == nil {
			o.ObserveInt64(rss, int64(info.RSS))
		} else {
			logger.Debug("failed to read process memory", "error", err)
		}
		return nil
	}, cpuPercent, rss, heap, goroutines)
}
