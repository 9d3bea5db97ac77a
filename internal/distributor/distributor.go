package distributor

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"github.com/0xmhha/soldrip/internal/util/mathutil"
	"github.com/0xmhha/soldrip/internal/util/progress"
	"github.com/0xmhha/soldrip/internal/wallet"
)

var ErrNoAccounts = errors.New("no source accounts")

// Sleeper pauses for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Distributor sends micro-transfers from source accounts to destination addresses.
// Every network call and pause is awaited in order; nothing runs concurrently.
type Distributor struct {
	client    Client
	config    *Config
	skips     SkipRecorder
	logger    zerolog.Logger
	rng       *rand.Rand
	sleep     Sleeper
	callbacks *Callbacks
	bar       *progressbar.ProgressBar
}

// New creates a new Distributor instance
func New(client Client, config *Config, skips SkipRecorder, logger zerolog.Logger) *Distributor {
	if config == nil {
		config = DefaultConfig()
	}
	return &Distributor{
		client:    client,
		config:    config,
		skips:     skips,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		sleep:     SleepContext,
		callbacks: &Callbacks{},
	}
}

// WithRand sets the random source for amounts and delays
func (d *Distributor) WithRand(rng *rand.Rand) *Distributor {
	d.rng = rng
	return d
}

// WithSleeper replaces the pause implementation
func (d *Distributor) WithSleeper(sleep Sleeper) *Distributor {
	d.sleep = sleep
	return d
}

// WithCallbacks sets the callbacks for metrics integration
func (d *Distributor) WithCallbacks(callbacks *Callbacks) *Distributor {
	if callbacks != nil {
		d.callbacks = callbacks
	}
	return d
}

// WithProgressBar advances bar once per processed account
func (d *Distributor) WithProgressBar(bar *progressbar.ProgressBar) *Distributor {
	d.bar = bar
	return d
}

// ResolveMinimumBalance queries the rent-exempt minimum for a zero-data account.
// On failure it returns the configured fallback and true; the run continues either way.
func (d *Distributor) ResolveMinimumBalance(ctx context.Context) (uint64, bool) {
	lamports, err := d.client.GetMinimumBalanceForRentExemption(ctx, 0)
	if err != nil {
		d.logger.Error().Err(err).
			Msg("Failed to fetch minimum balance for rent exemption. Using default value.")
		return d.config.RentFallback, true
	}

	d.logger.Info().Msgf("Minimum balance required for rent exemption: %s SOL", mathutil.FormatSOL(lamports))
	return lamports, false
}

// Run processes every credential in order against the same destination list.
// It returns an error only for an empty credential list or when ctx ends.
// Per-account and per-transfer failures are reported in the result.
func (d *Distributor) Run(
	ctx context.Context,
	credentials []string,
	destinations []solana.PublicKey,
) (*DistributionResult, error) {
	if len(credentials) == 0 {
		return nil, ErrNoAccounts
	}

	result := &DistributionResult{
		Accounts:     make([]*AccountReport, 0, len(credentials)),
		Destinations: len(destinations),
	}

	for i, credential := range credentials {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		report := d.processAccount(ctx, i, credential, destinations)
		result.Accounts = append(result.Accounts, report)
		progress.Add(d.bar, 1, d.logger)
	}

	return result, ctx.Err()
}

func (d *Distributor) processAccount(
	ctx context.Context,
	index int,
	credential string,
	destinations []solana.PublicKey,
) *AccountReport {
	report := &AccountReport{Index: index}

	keypair, err := wallet.KeypairFromCredential(credential)
	if err != nil {
		d.logger.Error().Err(err).Msgf("Skipping account %d: cannot derive key pair", index+1)
		report.Status = AccountInvalid
		report.Err = err
		d.accountSkipped(report.Status)
		return report
	}
	report.Address = keypair.PublicKey()

	d.logger.Info().Msgf("Sending SOL from account %d: %s", index+1, report.Address)

	// The balance is read once; later checks use this snapshot even after transfers.
	balance, err := d.client.GetBalance(ctx, report.Address)
	if err != nil {
		d.logger.Error().Err(err).Msgf("Failed to fetch balance for account: %s", report.Address)
		report.Status = AccountUnavailable
		report.Err = fmt.Errorf("failed to get balance for %s: %w", report.Address, err)
		d.accountSkipped(report.Status)
		return report
	}
	report.Balance = balance

	if balance < d.config.MinBalance {
		if err := d.skips.Record(report.Address, keypair.Secret()); err != nil {
			d.logger.Error().Err(err).Msgf("Failed to record account without balance: %s", report.Address)
		}
		d.logger.Error().Msgf("Not enough SOL for account: %s", report.Address)
		report.Status = AccountInsufficient
		d.accountSkipped(report.Status)
		return report
	}

	report.Status = AccountProcessed
	report.Transfers = make([]*TransferOutcome, 0, len(destinations))

	for _, dest := range destinations {
		if ctx.Err() != nil {
			return report
		}

		amount := d.randomAmount()
		if balance < amount {
			d.logger.Error().Msgf("Not enough SOL to send %s to %s.", mathutil.FormatSOL(amount), dest)
			report.Transfers = append(report.Transfers, &TransferOutcome{
				From:     report.Address,
				To:       dest,
				Lamports: amount,
				Status:   TransferSkipped,
			})
			if d.callbacks.OnDestinationSkipped != nil {
				d.callbacks.OnDestinationSkipped()
			}
			continue
		}

		delay := d.randomDelay()
		outcome := d.Transfer(ctx, keypair, dest, amount)
		report.Transfers = append(report.Transfers, outcome)

		if outcome.Status == TransferConfirmed {
			d.logger.Info().Msgf("Successfully sent %s SOL to %s after waiting %d ms",
				mathutil.FormatSOL(amount), dest, delay.Milliseconds())
		}

		if err := d.sleep(ctx, delay); err != nil {
			return report
		}
	}

	return report
}

func (d *Distributor) accountSkipped(status AccountStatus) {
	if d.callbacks.OnAccountSkipped != nil {
		d.callbacks.OnAccountSkipped(status)
	}
}
