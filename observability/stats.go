package observability

import (
	"context"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/shirou/gopsutil/v3/process"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	AppStatsName = "xtree/app"
)

var (
	once sync.Once
)

type appStats struct {
	proc         *process.Process
	goroutines   metric.Int64ObservableUpDownCounter
	processes    metric.Int64ObservableUpDownCounter
	residentSize metric.Int64ObservableGauge
}

func (stats *appStats) observe(ctx context.Context, ob metric.Observer) error {
	ob.ObserveInt64(stats.goroutines, int64(runtime.NumGoroutine()))
	ob.ObserveInt64(stats.processes, int64(runtime.GOMAXPROCS(0)))
	if stats.proc == nil {
		return nil
	}
	mem, err := stats.proc.MemoryInfoWithContext(ctx)
	if err != nil {
		return infra.WrapErrorStackWithMessage(err, "process memory info")
	}
	ob.ObserveInt64(stats.residentSize, int64(mem.RSS))
	return nil
}

// InitAppStats registers the process level instruments on the global
// meter provider once. They stop being observed after ctx is done.
func InitAppStats(ctx context.Context, name string) error {
	var err error
	once.Do(func() {
		builder := &strings.Builder{}
		builder.WriteString(AppStatsName)
		builder.WriteString("/")
		if len(strings.TrimSpace(name)) > 0 {
			builder.WriteString(name)
		} else {
			builder.WriteString("default")
		}
		meter := otel.Meter(
			builder.String(),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		stats := &appStats{
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
			)),
			processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"app.core.processes",
				metric.WithDescription(`The application processes' info.`),
			)),
			residentSize: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
				"app.process.rss",
				metric.WithDescription(`The application resident set size.`),
				metric.WithUnit("By"),
			)),
		}
		if proc, _err := process.NewProcessWithContext(ctx, int32(os.Getpid())); _err == nil {
			stats.proc = proc
		}

		var reg metric.Registration
		if reg, err = meter.RegisterCallback(stats.observe,
			stats.goroutines, stats.processes, stats.residentSize,
		); err != nil {
			err = infra.WrapErrorStackWithMessage(err, "app stats callback")
			return
		}
		if err = otelruntime.Start(); err != nil {
			err = infra.WrapErrorStackWithMessage(err, "otel runtime instrumentation")
			return
		}
		go func() {
			<-ctx.Done()
			_ = reg.Unregister()
		}()
	})
	return err
}
