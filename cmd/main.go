package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	app "github.com/okian/combine/internal/app"
	"github.com/okian/combine/internal/config"
	"github.com/okian/combine/internal/domain/portrait"
	"github.com/okian/combine/pkg/logger"
	"github.com/okian/combine/pkg/metrics"
)

// Background updater constants.
const (
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Stderr.WriteString("combine: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The bare command serves HTTP.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "combine",
		Short:         "Combine drill analytics: dashboard, API, MCP tools and CLI queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv(config.EnvConfig, configPath)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides "+config.EnvConfig+")")

	root.AddCommand(newServeCmd(), newMCPCmd(), newTopCmd(), newCompareCmd())
	return root
}

// bootstrap loads configuration, initializes logging to logOut and starts
// the service over the configured dataset.
func bootstrap(ctx context.Context, logOut io.Writer) (*config.Config, *app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWithWriter(logOut, cfg.LogFormat); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start service: %w", err)
	}
	return cfg, svc, nil
}

// newService maps cfg onto service options.
func newService(cfg *config.Config, log logger.Logger, extra ...app.Option) *app.Service {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithDatasetPaths(cfg.DatasetPath, cfg.PlayersPath),
		app.WithRegionsPath(cfg.RegionsPath),
		app.WithPortraitResolver(portrait.Resolver{
			Host:        cfg.PortraitHost,
			Token:       cfg.PortraitToken,
			Format:      cfg.PortraitFormat,
			Placeholder: cfg.PortraitPlaceholder,
		}),
		app.WithTopNBounds(cfg.DefaultTopN, cfg.MinTopN, cfg.MaxTopN),
		app.WithPipelineSchools(cfg.PipelineSchools),
		app.WithDefaultYears(cfg.DefaultYearMin, cfg.DefaultYearMax),
		app.WithPeerPool(cfg.PeerPool),
	}
	return app.New(append(opts, extra...)...)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
