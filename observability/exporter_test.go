package observability

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xtree/xlog"
)

func TestInitMetricsExporter_None(t *testing.T) {
	shutdown, err := InitMetricsExporter(MetricsConfig{Exporter: NoneExporter}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	shutdown, err = InitMetricsExporter(MetricsConfig{}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestInitMetricsExporter_Unknown(t *testing.T) {
	_, err := InitMetricsExporter(MetricsConfig{Exporter: "otlp"}, nil)
	require.ErrorIs(t, err, ErrUnknownExporter)
	require.Contains(t, err.Error(), "otlp")
}

func TestInitMetricsExporter_Stdout(t *testing.T) {
	buf := &bytes.Buffer{}
	shutdown, err := InitMetricsExporter(MetricsConfig{
		Exporter: StdoutExporter,
		Interval: time.Hour,
		Writer:   buf,
	}, nil)
	require.NoError(t, err)

	counter, err := otel.Meter("xtree/test/stdout").Int64Counter("xtree.test.stdout")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	// Shutdown flushes the last collection.
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, buf.String(), "xtree.test.stdout")
}

func TestInitMetricsExporter_Prometheus(t *testing.T) {
	logger := xlog.NewXLogger(xlog.WithXLoggerLevel(xlog.LogLevelError))
	shutdown, addr, err := newPrometheusMetricsExporter("127.0.0.1:0", logger)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, shutdown(context.Background()))
	}()

	counter, err := otel.Meter("xtree/test/prometheus").Int64Counter(
		"xtree.test.scrape",
		metric.WithDescription("scrape test"),
	)
	require.NoError(t, err)
	counter.Add(context.Background(), 7)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "xtree_test_scrape")
}

func TestInitMetricsExporter_PrometheusBadListen(t *testing.T) {
	_, err := InitMetricsExporter(MetricsConfig{Exporter: PrometheusExporter, Listen: "bad-addr"}, nil)
	require.Error(t, err)
}

func TestInitAppStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, InitAppStats(ctx, "test"))
	// Once per process.
	require.NoError(t, InitAppStats(ctx, "again"))

	rm := metricdata.ResourceMetrics{}
	require.NoError(t, reader.Collect(context.Background(), &rm))
	found := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != AppStatsName+"/test" {
			continue
		}
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				found[m.Name] = data.DataPoints[0].Value
			case metricdata.Gauge[int64]:
				found[m.Name] = data.DataPoints[0].Value
			default:
			}
		}
	}
	require.Positive(t, found["app.core.goroutines"])
	require.Positive(t, found["app.core.processes"])
	require.Positive(t, found["app.process.rss"])
}
