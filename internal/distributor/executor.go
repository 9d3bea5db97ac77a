package distributor

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/0xmhha/soldrip/internal/txbuilder"
	"github.com/0xmhha/soldrip/internal/wallet"
)

// Transfer sends lamports from source to dest with bounded retry.
// It never fails the run: exhaustion is reported in the returned outcome.
func (d *Distributor) Transfer(
	ctx context.Context,
	source *wallet.Keypair,
	dest solana.PublicKey,
	lamports uint64,
) *TransferOutcome {
	outcome := &TransferOutcome{
		From:     source.PublicKey(),
		To:       dest,
		Lamports: lamports,
		Status:   TransferFailed,
	}

	attempts := d.config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		outcome.Attempts = attempt
		if d.callbacks.OnAttempt != nil {
			d.callbacks.OnAttempt(attempt)
		}

		start := time.Now()
		sig, err := d.sendOnce(ctx, source, dest, lamports)
		if err == nil {
			outcome.Status = TransferConfirmed
			outcome.Signature = sig
			outcome.Latency = time.Since(start)
			outcome.Err = nil
			d.logger.Info().Msgf("Transaction confirmed with signature: %s", sig)
			if d.callbacks.OnConfirmed != nil {
				d.callbacks.OnConfirmed(lamports, outcome.Latency)
			}
			return outcome
		}

		outcome.Err = err
		d.logger.Error().Msgf("Attempt %d failed: %v", attempt, err)

		if attempt == attempts {
			break
		}
		if err := d.sleep(ctx, d.config.RetryDelay); err != nil {
			outcome.Err = err
			break
		}
	}

	d.logger.Error().Msgf("Failed to send SOL after %d attempts", outcome.Attempts)
	if d.callbacks.OnFailed != nil {
		d.callbacks.OnFailed(outcome.Err)
	}
	return outcome
}

// sendOnce builds, submits and confirms a single transfer
func (d *Distributor) sendOnce(
	ctx context.Context,
	source *wallet.Keypair,
	dest solana.PublicKey,
	lamports uint64,
) (solana.Signature, error) {
	blockhash, err := d.client.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := txbuilder.Build(txbuilder.Transfer{
		From:     source.PrivateKey(),
		To:       dest,
		Lamports: lamports,
	}, blockhash)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := d.client.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	if err := d.client.ConfirmTransaction(ctx, sig); err != nil {
		return sig, fmt.Errorf("failed to confirm %s: %w", sig, err)
	}

	return sig, nil
}
