package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/soldrip/internal/config"
	"github.com/0xmhha/soldrip/internal/metrics"
	"github.com/0xmhha/soldrip/internal/pipeline"
	"github.com/0xmhha/soldrip/internal/util/logging"
)

var (
	version = "dev"
	cfg     = config.Default()
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "soldrip",
		Short:   "Solana micro-transfer distributor",
		Long:    `soldrip sends small random SOL amounts from a list of source accounts to freshly generated addresses on a Solana test network.`,
		Version: version,
		Args:    cobra.NoArgs,
		RunE:    run,
	}

	registerFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func registerFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Network
	flags.StringVar(&cfg.URL, "url", cfg.URL, "RPC endpoint URL")
	flags.StringVar(&cfg.Commitment, "commitment", cfg.Commitment, "Confirmation level: processed, confirmed, finalized")
	flags.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Max RPC requests per second (0 = unlimited)")

	// Files
	flags.StringVar(&cfg.KeysFile, "keys", cfg.KeysFile, "JSON array of source account secrets")
	flags.StringVar(&cfg.SkipLogFile, "skip-log", cfg.SkipLogFile, "File receiving accounts below the minimum balance")

	// Distribution
	flags.IntVar(&cfg.MinDestinations, "min-destinations", cfg.MinDestinations, "Minimum number of destination addresses")
	flags.IntVar(&cfg.MaxDestinations, "max-destinations", cfg.MaxDestinations, "Maximum number of destination addresses")
	flags.Float64Var(&cfg.MinAmount, "min-amount", cfg.MinAmount, "Minimum SOL per transfer")
	flags.Float64Var(&cfg.MaxAmount, "max-amount", cfg.MaxAmount, "Maximum SOL per transfer")
	flags.Float64Var(&cfg.MinBalance, "min-balance", cfg.MinBalance, "Accounts below this SOL balance are skipped")
	flags.Float64Var(&cfg.RentFallback, "rent-fallback", cfg.RentFallback, "SOL used when the rent-exemption query fails")

	// Retry and pacing
	flags.IntVar(&cfg.Retries, "retries", cfg.Retries, "Attempts per transfer")
	flags.DurationVar(&cfg.RetryDelay, "retry-delay", cfg.RetryDelay, "Pause between attempts")
	flags.DurationVar(&cfg.MinDelay, "min-delay", cfg.MinDelay, "Minimum pause after each transfer")
	flags.DurationVar(&cfg.MaxDelay, "max-delay", cfg.MaxDelay, "Maximum pause after each transfer")
	flags.DurationVar(&cfg.ConfirmTimeout, "confirm-timeout", cfg.ConfirmTimeout, "Maximum wait for a transfer to confirm")
	flags.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Signature status polling interval")

	// Prometheus metrics flags
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", cfg.MetricsEnabled, "Enable Prometheus metrics endpoint")
	flags.IntVar(&cfg.MetricsPort, "metrics-port", cfg.MetricsPort, "Port for Prometheus metrics endpoint")

	// Output
	flags.BoolVar(&cfg.Export, "export", cfg.Export, "Export report to JSON and CSV files")
	flags.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Output directory for reports")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose logging")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable colored log output")
}

func run(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, !cfg.NoColor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn().Msg("Received interrupt signal, shutting down...")
		cancel()
	}()

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer p.Close()

	p.WithProgress(!cfg.Verbose)

	if cfg.MetricsEnabled {
		m := metrics.NewMetrics("soldrip", logger)
		if err := m.Start(ctx, cfg.MetricsPort); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = m.Stop(stopCtx)
		}()
		logger.Info().Msgf("Metrics available at :%d/metrics", cfg.MetricsPort)
		p.WithMetrics(m)
	}

	result, err := p.Execute(ctx)
	if err != nil {
		return fmt.Errorf("distribution failed: %w", err)
	}

	if !result.Success() {
		return fmt.Errorf("distribution completed with errors")
	}

	return nil
}
