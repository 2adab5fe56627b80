package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/xlog"
)

type ObservabilityErr string

const (
	ErrUnknownExporter ObservabilityErr = "[observability] unknown metrics exporter"
)

func (err ObservabilityErr) Error() string {
	return string(err)
}

type MetricsExporterType string

const (
	NoneExporter       MetricsExporterType = "none"
	StdoutExporter     MetricsExporterType = "stdout"
	PrometheusExporter MetricsExporterType = "prometheus"
)

type MetricsConfig struct {
	Exporter MetricsExporterType
	// Interval of the stdout periodic reader.
	Interval time.Duration
	// Listen address of the prometheus scrape endpoint.
	Listen string
	// Writer of the stdout exporter, stderr by default.
	Writer io.Writer
}

// ShutdownFunc flushes and stops what an exporter started.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitMetricsExporter installs the global otel meter provider.
// NoneExporter keeps the otel no-op provider.
func InitMetricsExporter(cfg MetricsConfig, logger xlog.XLogger) (ShutdownFunc, error) {
	switch cfg.Exporter {
	case NoneExporter, "":
		return noopShutdown, nil
	case StdoutExporter:
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		interval := cfg.Interval
		if interval <= 0 {
			interval = 10 * time.Second
		}
		return newConsoleMetricsExporter(interval, interval, stdoutmetric.WithWriter(w))
	case PrometheusExporter:
		shutdown, addr, err := newPrometheusMetricsExporter(cfg.Listen, logger)
		if err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Info("prometheus metrics exporter serving", zap.String("addr", "http://"+addr+"/metrics"))
		}
		return shutdown, nil
	default:
	}
	return nil, infra.WrapErrorStackWithMessage(ErrUnknownExporter, string(cfg.Exporter))
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "stdout metrics exporter")
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
// The registry is private, so the scrape shows the otel instruments only.
func newPrometheusMetricsExporter(listen string, logger xlog.XLogger) (ShutdownFunc, string, error) {
	reg := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, "", infra.WrapErrorStackWithMessage(err, "prometheus metrics exporter")
	}
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, "", infra.WrapErrorStackWithMessage(err, "prometheus metrics listen")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && logger != nil {
			logger.ErrorStack(infra.WrapErrorStack(err), "prometheus metrics server exits")
		}
	}()

	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	shutdown := func(ctx context.Context) error {
		return multierr.Combine(srv.Shutdown(ctx), mp.Shutdown(ctx))
	}
	return shutdown, ln.Addr().String(), nil
}
