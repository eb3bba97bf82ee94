// Command probe checks a running combine server for ordering and percentile
// consistency across every ranking and a sample of player comparisons.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/combine/internal/probe"
	"github.com/okian/combine/pkg/logger"
)

const (
	logFilePermission = 0o600
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &probe.Config{}
	var logFile string

	cmd := &cobra.Command{
		Use:           "probe",
		Short:         "Verify rankings and comparisons served by a combine instance",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogging(logFile, cfg.Verbose); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()

			stats, err := probe.Run(ctx, cfg)
			if err != nil {
				return err
			}
			if stats.Failed() {
				return fmt.Errorf("%d checks failed", len(stats.Failures))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", probe.DefaultBaseURL, "base URL of the service")
	f.IntVar(&cfg.Pairs, "pairs", probe.DefaultPairs, "number of player pairs to compare")
	f.IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "number of concurrent comparison requests")
	f.DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	f.BoolVar(&cfg.Verbose, "verbose", false, "log every checked ranking")
	f.StringVar(&logFile, "log", "", "also append log output to this file")
	return cmd
}

// setupLogging logs to stdout and, when logFile is set, to the file too.
func setupLogging(logFile string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWithWriter(out, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}
