package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/0xmhha/soldrip/internal/client"
	"github.com/0xmhha/soldrip/internal/config"
	"github.com/0xmhha/soldrip/internal/distributor"
	"github.com/0xmhha/soldrip/internal/metrics"
	"github.com/0xmhha/soldrip/internal/report"
	"github.com/0xmhha/soldrip/internal/util/mathutil"
	"github.com/0xmhha/soldrip/internal/util/progress"
	"github.com/0xmhha/soldrip/internal/wallet"
)

// Pipeline runs one distribution from credential file to final report
type Pipeline struct {
	cfg      *config.Config
	amounts  config.Amounts
	logger   zerolog.Logger
	out      io.Writer
	metrics  *metrics.Metrics
	rng      *rand.Rand
	progress bool

	// Components, created during INITIALIZE
	client      *client.Client
	distributor *distributor.Distributor

	// State
	credentials  []string
	destinations []solana.PublicKey
}

// New creates a new pipeline instance. No file or network access happens here.
func New(cfg *config.Config, logger zerolog.Logger) (*Pipeline, error) {
	amounts, err := cfg.Amounts()
	if err != nil {
		return nil, fmt.Errorf("invalid amounts: %w", err)
	}

	return &Pipeline{
		cfg:     cfg,
		amounts: amounts,
		logger:  logger,
		out:     os.Stdout,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}, nil
}

// WithOutput sets where banners and tables are printed
func (p *Pipeline) WithOutput(w io.Writer) *Pipeline {
	p.out = w
	return p
}

// WithMetrics records run metrics into m
func (p *Pipeline) WithMetrics(m *metrics.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// WithRand sets the random source for destination count, amounts and delays
func (p *Pipeline) WithRand(rng *rand.Rand) *Pipeline {
	p.rng = rng
	return p
}

// WithProgress shows a per-account progress bar during DISTRIBUTE
func (p *Pipeline) WithProgress(enabled bool) *Pipeline {
	p.progress = enabled
	return p
}

// Execute runs every stage in order and stops at the first failing one
func (p *Pipeline) Execute(ctx context.Context) (*Result, error) {
	result := NewResult()

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(p.out, "║                          soldrip                             ║")
	fmt.Fprintln(p.out, "║              Solana Micro-Transfer Distributor               ║")
	fmt.Fprintln(p.out, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(p.out)

	stages := []struct {
		stage Stage
		fn    func(context.Context, *Result) error
	}{
		{StageInit, p.initialize},
		{StageResolve, p.resolve},
		{StageDistribute, p.distribute},
		{StageReport, p.report},
	}

	for _, s := range stages {
		if err := p.runStage(ctx, result, s.stage, s.fn); err != nil {
			result.Finalize()
			return result, err
		}
	}

	result.Finalize()
	p.printFinalSummary(result)

	return result, nil
}

// runStage executes a pipeline stage with timing and error handling
func (p *Pipeline) runStage(ctx context.Context, result *Result, stage Stage, fn func(context.Context, *Result) error) error {
	fmt.Fprintf(p.out, "\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(p.out, "  Stage %d: %s\n", stage+1, stage.String())
	fmt.Fprintf(p.out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")

	start := time.Now()
	err := fn(ctx, result)
	duration := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordStageDuration(stage.String(), duration)
	}

	sr := &StageResult{
		Stage:    stage,
		Success:  err == nil,
		Duration: duration,
	}

	if err != nil {
		sr.Error = err
		sr.Message = fmt.Sprintf("Failed: %v", err)
		fmt.Fprintf(p.out, "\n❌ Stage %s failed: %v\n", stage.String(), err)
	} else {
		sr.Message = fmt.Sprintf("Completed in %s", duration)
		fmt.Fprintf(p.out, "\n✅ Stage %s completed in %s\n", stage.String(), duration)
	}

	result.AddStageResult(sr)
	return err
}

// Stage 1: load credentials, generate destinations, create the RPC client.
// Credentials are read first so a bad file stops the run before any network call.
func (p *Pipeline) initialize(_ context.Context, result *Result) error {
	credentials, err := wallet.LoadCredentials(p.cfg.KeysFile)
	if err != nil {
		return err
	}
	p.credentials = credentials
	result.Accounts = len(credentials)

	count := wallet.DestinationCount(p.rng, p.cfg.MinDestinations, p.cfg.MaxDestinations)
	destinations, err := wallet.GenerateDestinations(count)
	if err != nil {
		return fmt.Errorf("failed to generate destinations: %w", err)
	}
	p.destinations = destinations
	result.Destinations = len(destinations)
	if p.metrics != nil {
		p.metrics.SetDestinations(len(destinations))
	}

	commitment, err := client.ParseCommitment(p.cfg.Commitment)
	if err != nil {
		return err
	}
	p.client = client.New(p.cfg.URL, client.Options{
		Commitment:     commitment,
		RateLimit:      p.cfg.RateLimit,
		PollInterval:   p.cfg.PollInterval,
		ConfirmTimeout: p.cfg.ConfirmTimeout,
	})

	p.distributor = distributor.New(p.client, &distributor.Config{
		MinBalance:   p.amounts.MinBalance,
		MinAmount:    p.amounts.MinAmount,
		MaxAmount:    p.amounts.MaxAmount,
		RentFallback: p.amounts.RentFallback,
		MaxAttempts:  p.cfg.Retries,
		RetryDelay:   p.cfg.RetryDelay,
		MinDelay:     p.cfg.MinDelay,
		MaxDelay:     p.cfg.MaxDelay,
	}, report.NewSkipLog(p.cfg.SkipLogFile), p.logger).
		WithRand(p.rng).
		WithCallbacks(p.callbacks())

	fmt.Fprintf(p.out, "\n📋 Configuration:\n")
	fmt.Fprintf(p.out, "  URL:            %s\n", p.cfg.URL)
	fmt.Fprintf(p.out, "  Commitment:     %s\n", commitment)
	fmt.Fprintf(p.out, "  Source Keys:    %d (%s)\n", len(credentials), p.cfg.KeysFile)
	fmt.Fprintf(p.out, "  Destinations:   %d\n", len(destinations))
	fmt.Fprintf(p.out, "  Amount Range:   %s - %s SOL\n",
		mathutil.FormatSOL(p.amounts.MinAmount), mathutil.FormatSOL(p.amounts.MaxAmount))
	fmt.Fprintf(p.out, "  Minimum Balance: %s SOL\n", mathutil.FormatSOL(p.amounts.MinBalance))
	fmt.Fprintf(p.out, "  Delay:          %s - %s\n", p.cfg.MinDelay, p.cfg.MaxDelay)
	fmt.Fprintf(p.out, "  Retries:        %d (every %s)\n", p.cfg.Retries, p.cfg.RetryDelay)

	return nil
}

// Stage 2: resolve the rent-exempt minimum
func (p *Pipeline) resolve(ctx context.Context, result *Result) error {
	lamports, fallback := p.distributor.ResolveMinimumBalance(ctx)
	result.RentExemptMinimum = lamports
	result.RentFallbackUsed = fallback
	if p.metrics != nil {
		p.metrics.SetRentExemptMinimum(lamports)
	}
	return ctx.Err()
}

// Stage 3: run the distribution loop
func (p *Pipeline) distribute(ctx context.Context, result *Result) error {
	bar := progress.New(len(p.credentials), "accounts", p.progress)
	p.distributor.WithProgressBar(bar)

	distribution, err := p.distributor.Run(ctx, p.credentials, p.destinations)
	result.Distribution = distribution
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("distribution interrupted: %w", err)
	}

	fmt.Fprintf(p.out, "\n📊 Distribution Summary:\n")
	fmt.Fprintf(p.out, "  Processed Accounts: %d\n", distribution.AccountsWithStatus(distributor.AccountProcessed))
	fmt.Fprintf(p.out, "  Skipped Accounts:   %d\n", len(distribution.Accounts)-distribution.AccountsWithStatus(distributor.AccountProcessed))
	fmt.Fprintf(p.out, "  Confirmed:          %d\n", distribution.Count(distributor.TransferConfirmed))
	fmt.Fprintf(p.out, "  Failed:             %d\n", distribution.Count(distributor.TransferFailed))
	fmt.Fprintf(p.out, "  Total Sent:         %s SOL\n", mathutil.FormatSOL(distribution.LamportsSent()))

	return nil
}

// Stage 4: print tables and export files
func (p *Pipeline) report(_ context.Context, result *Result) error {
	rep := report.Build(result.Distribution, report.Meta{
		Endpoint:          p.cfg.URL,
		StartTime:         result.StartTime,
		EndTime:           time.Now(),
		RentExemptMinimum: result.RentExemptMinimum,
		RentFallbackUsed:  result.RentFallbackUsed,
	})
	result.Report = rep

	fmt.Fprintln(p.out)
	report.PrintAccounts(p.out, rep)
	fmt.Fprintln(p.out)
	report.PrintSummary(p.out, rep)

	if p.cfg.Export {
		files, err := report.NewExporter(p.cfg.OutputDir).ExportAll(rep)
		if err != nil {
			fmt.Fprintf(p.out, "⚠️  Failed to export report: %v\n", err)
			return nil
		}
		result.ExportedFiles = files
		fmt.Fprintf(p.out, "\n📁 Reports exported to:\n")
		for _, f := range files {
			fmt.Fprintf(p.out, "  - %s\n", f)
		}
	}

	return nil
}

func (p *Pipeline) callbacks() *distributor.Callbacks {
	if p.metrics == nil {
		return nil
	}
	m := p.metrics
	return &distributor.Callbacks{
		OnAttempt:            m.RecordAttempt,
		OnConfirmed:          m.RecordConfirmed,
		OnFailed:             func(error) { m.RecordFailed() },
		OnDestinationSkipped: m.RecordDestinationSkipped,
		OnAccountSkipped:     func(s distributor.AccountStatus) { m.RecordAccountSkipped(s.String()) },
	}
}

// printFinalSummary prints stage timings and the overall verdict
func (p *Pipeline) printFinalSummary(result *Result) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "╔══════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(p.out, "║                    📊 Execution Summary 📊                    ║")
	fmt.Fprintln(p.out, "╚══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(p.out)

	fmt.Fprintf(p.out, "Stage Results:\n")
	for _, sr := range result.StageResults {
		status := "✅"
		if !sr.Success {
			status = "❌"
		}
		fmt.Fprintf(p.out, "  %s Stage %d (%s): %s\n", status, sr.Stage+1, sr.Stage.String(), sr.Duration)
	}

	fmt.Fprintf(p.out, "\nTotal Duration: %s\n", result.Duration)

	if result.Success() {
		fmt.Fprintln(p.out, "\n🎉 Distribution completed")
	} else {
		fmt.Fprintln(p.out, "\n⚠️  Distribution completed with errors")
		for _, err := range result.Errors {
			fmt.Fprintf(p.out, "  - %v\n", err)
		}
	}
}

// Close releases the RPC client
func (p *Pipeline) Close() {
	if p.client != nil {
		if err := p.client.Close(); err != nil {
			p.logger.Debug().Err(err).Msg("failed to close rpc client")
		}
	}
}
