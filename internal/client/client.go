package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"
)

var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrConfirmTimeout    = errors.New("timed out waiting for confirmation")
)

// Options tunes commitment, pacing and confirmation polling
type Options struct {
	Commitment     rpc.CommitmentType
	RateLimit      float64 // requests per second, 0 = unlimited
	PollInterval   time.Duration
	ConfirmTimeout time.Duration
}

// DefaultOptions returns the options used against the devnet endpoint
func DefaultOptions() Options {
	return Options{
		Commitment:     rpc.CommitmentConfirmed,
		PollInterval:   500 * time.Millisecond,
		ConfirmTimeout: 60 * time.Second,
	}
}

// Client wraps the Solana JSON-RPC client. It is shared by every stage and used serially.
type Client struct {
	rpc     *rpc.Client
	opts    Options
	limiter *rate.Limiter
}

// New creates a new client instance. No request is made until the first call.
func New(url string, opts Options) *Client {
	defaults := DefaultOptions()
	if opts.Commitment == "" {
		opts.Commitment = defaults.Commitment
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaults.PollInterval
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = defaults.ConfirmTimeout
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		rpc:     rpc.New(url),
		opts:    opts,
		limiter: limiter,
	}
}

// ParseCommitment maps a commitment name to its RPC type
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch strings.ToLower(s) {
	case "processed":
		return rpc.CommitmentProcessed, nil
	case "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", fmt.Errorf("unknown commitment %q", s)
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.rpc.Close()
}

// Commitment returns the commitment level used for reads and confirmations
func (c *Client) Commitment() rpc.CommitmentType {
	return c.opts.Commitment
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// GetBalance returns the balance of an account in lamports
func (c *Client) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	out, err := c.rpc.GetBalance(ctx, account, c.opts.Commitment)
	if err != nil {
		return 0, err
	}
	return out.Value, nil
}

// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for an account of dataSize bytes
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	if err := c.wait(ctx); err != nil {
		return 0, err
	}
	return c.rpc.GetMinimumBalanceForRentExemption(ctx, dataSize, c.opts.Commitment)
}

// LatestBlockhash returns the most recent blockhash
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Hash{}, err
	}
	out, err := c.rpc.GetLatestBlockhash(ctx, c.opts.Commitment)
	if err != nil {
		return solana.Hash{}, err
	}
	return out.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction with preflight at the client commitment
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := c.wait(ctx); err != nil {
		return solana.Signature{}, err
	}
	return c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.opts.Commitment,
	})
}

// ConfirmTransaction polls the signature status until it reaches the client commitment
func (c *Client) ConfirmTransaction(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		done, err := c.checkStatus(ctx, sig)
		if err != nil || done {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s after %s", ErrConfirmTimeout, sig, c.opts.ConfirmTimeout)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) checkStatus(ctx context.Context, sig solana.Signature) (bool, error) {
	if err := c.wait(ctx); err != nil {
		return false, nil
	}

	out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		// transient; the deadline bounds how long we keep asking
		return false, nil
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrTransactionFailed, sig, status.Err)
	}
	return reached(string(status.ConfirmationStatus), c.opts.Commitment), nil
}

var commitmentRank = map[string]int{
	string(rpc.CommitmentProcessed): 1,
	string(rpc.CommitmentConfirmed): 2,
	string(rpc.CommitmentFinalized): 3,
}

func reached(status string, want rpc.CommitmentType) bool {
	got, ok := commitmentRank[status]
	if !ok {
		return false
	}
	return got >= commitmentRank[string(want)]
}
