package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/config"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

const appStartStopTimeout = 15 * time.Second

// appEnv is what a command body receives from the fx container.
type appEnv struct {
	Loader *config.Loader
	Config *config.Config
	Logger xlog.XLogger
}

func loadConfig(cmd *cobra.Command) (*config.Loader, *config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, infra.WrapErrorStack(err)
	}
	loader, err := config.NewLoader(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, err
	}
	return loader, cfg, nil
}

// Logs go to stderr, stdout belongs to the command output.
func newLogger(cfg *config.Config) xlog.XLogger {
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.ParseLogLevel(cfg.Log.Level)),
		xlog.WithXLoggerEncoder(xlog.ParseLogEncoder(cfg.Log.Encoder)),
		xlog.WithXLoggerStdErrWriter(),
	)
}

func registerMetrics(lc fx.Lifecycle, cfg *config.Config, logger xlog.XLogger) {
	var (
		shutdown observability.ShutdownFunc
		cancel   context.CancelFunc
	)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			var err error
			shutdown, err = observability.InitMetricsExporter(observability.MetricsConfig{
				Exporter: observability.MetricsExporterType(cfg.Metrics.Exporter),
				Interval: cfg.Metrics.Interval,
				Listen:   cfg.Metrics.Listen,
			}, logger)
			if err != nil {
				return err
			}
			if cfg.Metrics.Exporter == string(observability.NoneExporter) {
				return nil
			}
			var statsCtx context.Context
			statsCtx, cancel = context.WithCancel(context.Background())
			return observability.InitAppStats(statsCtx, "xtree")
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

// runApp starts the container, runs body and stops the container.
func runApp(cmd *cobra.Command, body func(ctx context.Context, env *appEnv) error) (err error) {
	loader, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	env := &appEnv{Loader: loader, Config: cfg}
	app := fx.New(
		fx.Supply(loader, cfg),
		fx.Provide(newLogger),
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Invoke(registerMetrics),
		fx.Populate(&env.Logger),
	)
	if err = app.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	startCtx, cancel := context.WithTimeout(ctx, appStartStopTimeout)
	defer cancel()
	if err = app.Start(startCtx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), appStartStopTimeout)
		defer cancel()
		err = multierr.Append(err, app.Stop(stopCtx))
		// Syncing a terminal stderr fails with EINVAL on some platforms.
		_ = env.Logger.Sync()
	}()

	return body(ctx, env)
}
