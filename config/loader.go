package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/benz9527/xtree/lib/infra"
)

const (
	configType      = "yaml"
	envPrefix       = "XTREE"
	envKeySeparator = "_"
)

// flagKeys binds the CLI flag names to the config keys.
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"log-encoder":      "log.encoder",
	"metrics-exporter": "metrics.exporter",
	"metrics-interval": "metrics.interval",
	"metrics-listen":   "metrics.listen",
	"trees":            "bench.trees",
	"keys":             "bench.keys",
	"workers":          "bench.workers",
	"validate":         "bench.validate",
}

// Loader resolves defaults < config file < XTREE_* env < flags.
type Loader struct {
	lock sync.Mutex
	v    *viper.Viper
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.encoder", DefaultLogEncoder)

	v.SetDefault("metrics.exporter", DefaultMetricsExporter)
	v.SetDefault("metrics.interval", DefaultMetricsInterval)
	v.SetDefault("metrics.listen", DefaultMetricsListen)

	v.SetDefault("bench.trees", DefaultBenchTrees)
	v.SetDefault("bench.keys", DefaultBenchKeys)
	v.SetDefault("bench.workers", DefaultBenchWorkers)
	v.SetDefault("bench.validate", DefaultBenchValidate)
}

// NewLoader reads the config file if path is not empty, a missing
// file is an error then. Flags are bound only if they are set.
func NewLoader(path string, flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, infra.WrapErrorStackWithMessage(err, "bind flag "+name)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, infra.WrapErrorStackWithMessage(err, "config file not found")
			}
			return nil, infra.WrapErrorStackWithMessage(err, "read config")
		}
	}
	return &Loader{v: v}, nil
}

// Load unmarshals and validates the current settings.
func (l *Loader) Load() (*Config, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "unmarshal config")
	}
	cfg.Log.Level = strings.ToUpper(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Encoder = strings.ToLower(strings.TrimSpace(cfg.Log.Encoder))
	cfg.Metrics.Exporter = strings.ToLower(strings.TrimSpace(cfg.Metrics.Exporter))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch reloads the file on each change event and passes the result,
// or the load error, to onChange. No-op without a config file.
func (l *Loader) Watch(onChange func(cfg *Config, err error, in fsnotify.Event)) {
	if l.v.ConfigFileUsed() == "" || onChange == nil {
		return
	}
	l.v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.Load()
		onChange(cfg, err, in)
	})
	l.v.WatchConfig()
}
