package config

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

type ConfigErr string

const (
	ErrInvalidConfig ConfigErr = "[config] invalid"
)

func (err ConfigErr) Error() string {
	return string(err)
}

const (
	DefaultLogLevel        = "INFO"
	DefaultLogEncoder      = "plaintext"
	DefaultMetricsExporter = "none"
	DefaultMetricsInterval = 10 * time.Second
	DefaultMetricsListen   = "127.0.0.1:9464"
	DefaultBenchTrees      = 8
	DefaultBenchKeys       = 10000
	DefaultBenchWorkers    = 4
	DefaultBenchValidate   = true
)

// Config is the top-level configuration of xtree.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Bench   BenchConfig   `mapstructure:"bench"`
}

type LogConfig struct {
	// DEBUG, INFO, WARN or ERROR.
	Level string `mapstructure:"level"`
	// json or plaintext.
	Encoder string `mapstructure:"encoder"`
}

type MetricsConfig struct {
	// none, stdout or prometheus.
	Exporter string        `mapstructure:"exporter"`
	Interval time.Duration `mapstructure:"interval"`
	Listen   string        `mapstructure:"listen"`
}

type BenchConfig struct {
	// Independent workloads per tree engine.
	Trees    int  `mapstructure:"trees"`
	Keys     int  `mapstructure:"keys"`
	Workers  int  `mapstructure:"workers"`
	Validate bool `mapstructure:"validate"`
}

func invalid(format string, args ...any) error {
	return infra.WrapErrorStackWithMessage(ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate reports every invalid field at once.
func (cfg *Config) Validate() error {
	var err error
	if !slices.Contains([]string{"DEBUG", "INFO", "WARN", "ERROR"}, cfg.Log.Level) {
		err = multierr.Append(err, invalid("log.level %q", cfg.Log.Level))
	}
	if !slices.Contains([]string{"json", "plaintext"}, cfg.Log.Encoder) {
		err = multierr.Append(err, invalid("log.encoder %q", cfg.Log.Encoder))
	}
	if !slices.Contains([]string{"none", "stdout", "prometheus"}, cfg.Metrics.Exporter) {
		err = multierr.Append(err, invalid("metrics.exporter %q", cfg.Metrics.Exporter))
	}
	if cfg.Metrics.Interval <= 0 {
		err = multierr.Append(err, invalid("metrics.interval %s", cfg.Metrics.Interval))
	}
	if cfg.Bench.Trees <= 0 {
		err = multierr.Append(err, invalid("bench.trees %d", cfg.Bench.Trees))
	}
	if cfg.Bench.Keys <= 0 {
		err = multierr.Append(err, invalid("bench.keys %d", cfg.Bench.Keys))
	}
	if cfg.Bench.Workers <= 0 {
		err = multierr.Append(err, invalid("bench.workers %d", cfg.Bench.Workers))
	}
	return err
}
