package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Defaults(t *testing.T) {
	l, err := NewLoader("", nil)
	require.NoError(t, err)
	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, &Config{
		Log: LogConfig{Level: DefaultLogLevel, Encoder: DefaultLogEncoder},
		Metrics: MetricsConfig{
			Exporter: DefaultMetricsExporter,
			Interval: DefaultMetricsInterval,
			Listen:   DefaultMetricsListen,
		},
		Bench: BenchConfig{
			Trees:    DefaultBenchTrees,
			Keys:     DefaultBenchKeys,
			Workers:  DefaultBenchWorkers,
			Validate: DefaultBenchValidate,
		},
	}, cfg)
	require.Empty(t, l.ConfigFileUsed())
}

func TestLoader_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtree.yaml")
	writeConfig(t, path, `
log:
  level: debug
  encoder: json
metrics:
  exporter: stdout
  interval: 3s
bench:
  trees: 2
  keys: 100
`)
	t.Setenv("XTREE_BENCH_KEYS", "200")
	t.Setenv("XTREE_BENCH_WORKERS", "9")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", DefaultBenchWorkers, "")
	flags.Bool("validate", DefaultBenchValidate, "")
	flags.String("log-level", DefaultLogLevel, "")
	require.NoError(t, flags.Parse([]string{"--workers=16", "--validate=false"}))

	l, err := NewLoader(path, flags)
	require.NoError(t, err)
	require.Equal(t, path, l.ConfigFileUsed())
	cfg, err := l.Load()
	require.NoError(t, err)

	// File over defaults, unchanged flag does not shadow the file.
	require.Equal(t, "DEBUG", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Encoder)
	require.Equal(t, "stdout", cfg.Metrics.Exporter)
	require.Equal(t, 3*time.Second, cfg.Metrics.Interval)
	require.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
	require.Equal(t, 2, cfg.Bench.Trees)
	// Env over file.
	require.Equal(t, 200, cfg.Bench.Keys)
	// Flags over env.
	require.Equal(t, 16, cfg.Bench.Workers)
	require.False(t, cfg.Bench.Validate)
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestLoader_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtree.yaml")
	writeConfig(t, path, `
log:
  level: loud
metrics:
  exporter: otlp
bench:
  trees: 0
`)
	l, err := NewLoader(path, nil)
	require.NoError(t, err)
	_, err = l.Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Len(t, multierr.Errors(err), 3)
}

func TestLoader_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xtree.yaml")
	writeConfig(t, path, "log:\n  level: info\n")
	l, err := NewLoader(path, nil)
	require.NoError(t, err)

	level := atomic.Value{}
	l.Watch(func(cfg *Config, err error, in fsnotify.Event) {
		if err == nil {
			level.Store(cfg.Log.Level)
		}
	})
	// Give the watcher time to start.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "log:\n  level: error\n")
	require.Eventually(t, func() bool {
		v, ok := level.Load().(string)
		return ok && v == "ERROR"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestLoader_WatchWithoutFile(t *testing.T) {
	l, err := NewLoader("", nil)
	require.NoError(t, err)
	require.NotPanics(t, func() {
		l.Watch(func(*Config, error, fsnotify.Event) {})
	})
}
