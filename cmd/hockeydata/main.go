package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/hockey-ingest/internal/config"
	"github.com/riskibarqy/hockey-ingest/internal/observability"
	"github.com/riskibarqy/hockey-ingest/internal/platform/logging"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// runtime carries what every subcommand needs after config is loaded.
// close runs after the command regardless of its outcome.
type runtime struct {
	cfg    config.Config
	logger *logging.Logger
	out    io.Writer

	shutdownTracing func(context.Context) error
	stopProfiler    func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &runtime{out: os.Stdout}
	err := newRootCmd(rt).ExecuteContext(ctx)
	rt.close(ctx)
	os.Exit(exitCodeOf(err))
}

func exitCodeOf(err error) int {
	if err == nil {
		return exitOK
	}
	var coded *exitError
	if errors.As(err, &coded) {
		if coded.err != nil {
			fmt.Fprintln(os.Stderr, coded.err)
		}
		return coded.code
	}
	fmt.Fprintln(os.Stderr, err)
	return exitFailure
}

func newRootCmd(rt *runtime) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "hockeydata",
		Short:         "Ingest youth hockey statistics and validate the stored dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(envFile); err != nil {
				return withCode(exitUsage, err)
			}
			cfg, err := config.Load()
			if err != nil {
				return withCode(exitUsage, fmt.Errorf("load config: %w", err))
			}
			rt.cfg = cfg
			rt.logger = logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "command", cmd.Name())
			logging.SetDefault(rt.logger)

			rt.shutdownTracing, err = observability.InitUptrace(cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("init uptrace: %w", err)
			}
			rt.stopProfiler, err = observability.InitPyroscope(cfg, rt.logger)
			if err != nil {
				return fmt.Errorf("init pyroscope: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default: .env when present)")

	root.AddCommand(newIngestCmd(rt), newValidateCmd(rt), newMigrateCmd(rt))
	return root
}

func (rt *runtime) close(ctx context.Context) {
	if rt.stopProfiler != nil {
		if err := rt.stopProfiler(); err != nil {
			rt.logger.Warn("stop pyroscope failed", "error", err)
		}
		rt.stopProfiler = nil
	}
	if rt.shutdownTracing != nil {
		if err := rt.shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			rt.logger.Warn("shutdown uptrace failed", "error", err)
		}
		rt.shutdownTracing = nil
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}
