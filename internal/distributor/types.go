package distributor

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
)

// Client interface for blockchain operations
type Client interface {
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature) error
}

// SkipRecorder persists accounts skipped for insufficient balance
type SkipRecorder interface {
	Record(address solana.PublicKey, secret string) error
}

// Config holds distribution configuration. Amounts are in lamports.
type Config struct {
	// Accounts below this balance are skipped and recorded
	MinBalance uint64

	// Per-transfer amount band
	MinAmount uint64
	MaxAmount uint64

	// Substituted when the rent-exemption query fails
	RentFallback uint64

	// Transfer attempts and the fixed pause between them
	MaxAttempts int
	RetryDelay  time.Duration

	// Pause after each destination, drawn from [MinDelay, MaxDelay]
	MinDelay time.Duration
	MaxDelay time.Duration
}

// DefaultConfig returns default distribution configuration
func DefaultConfig() *Config {
	return &Config{
		MinBalance:   1_100_000, // 0.0011 SOL
		MinAmount:    1_100_000, // 0.0011 SOL
		MaxAmount:    1_199_000, // 0.001199 SOL
		RentFallback: 1_000_000, // 0.001 SOL
		MaxAttempts:  3,
		RetryDelay:   2 * time.Second,
		MinDelay:     500 * time.Millisecond,
		MaxDelay:     1500 * time.Millisecond,
	}
}

// TransferStatus is the final state of one destination
type TransferStatus int

const (
	TransferConfirmed TransferStatus = iota
	TransferFailed
	TransferSkipped
)

func (s TransferStatus) String() string {
	switch s {
	case TransferConfirmed:
		return "CONFIRMED"
	case TransferFailed:
		return "FAILED"
	case TransferSkipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// TransferOutcome is the result of sending to one destination
type TransferOutcome struct {
	From      solana.PublicKey
	To        solana.PublicKey
	Lamports  uint64
	Status    TransferStatus
	Attempts  int
	Signature solana.Signature
	Latency   time.Duration
	Err       error
}

// AccountStatus is the final state of one source account
type AccountStatus int

const (
	AccountProcessed AccountStatus = iota
	AccountInsufficient
	AccountInvalid
	AccountUnavailable
)

func (s AccountStatus) String() string {
	switch s {
	case AccountProcessed:
		return "PROCESSED"
	case AccountInsufficient:
		return "INSUFFICIENT"
	case AccountInvalid:
		return "INVALID"
	case AccountUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// AccountReport holds everything done for one source account
type AccountReport struct {
	Index     int
	Address   solana.PublicKey
	Balance   uint64
	Status    AccountStatus
	Transfers []*TransferOutcome
	Err       error
}

// Count returns the number of transfers with the given status
func (a *AccountReport) Count(status TransferStatus) int {
	n := 0
	for _, t := range a.Transfers {
		if t.Status == status {
			n++
		}
	}
	return n
}

// LamportsSent returns the total of confirmed transfers
func (a *AccountReport) LamportsSent() uint64 {
	var total uint64
	for _, t := range a.Transfers {
		if t.Status == TransferConfirmed {
			total += t.Lamports
		}
	}
	return total
}

// DistributionResult holds the result of a distribution run
type DistributionResult struct {
	Accounts     []*AccountReport
	Destinations int
}

// Count returns the number of transfers with the given status across all accounts
func (r *DistributionResult) Count(status TransferStatus) int {
	n := 0
	for _, a := range r.Accounts {
		n += a.Count(status)
	}
	return n
}

// Attempts returns the number of submissions made
func (r *DistributionResult) Attempts() int {
	n := 0
	for _, a := range r.Accounts {
		for _, t := range a.Transfers {
			n += t.Attempts
		}
	}
	return n
}

// LamportsSent returns the total of confirmed transfers
func (r *DistributionResult) LamportsSent() uint64 {
	var total uint64
	for _, a := range r.Accounts {
		total += a.LamportsSent()
	}
	return total
}

// AccountsWithStatus returns the number of accounts in the given state
func (r *DistributionResult) AccountsWithStatus(status AccountStatus) int {
	n := 0
	for _, a := range r.Accounts {
		if a.Status == status {
			n++
		}
	}
	return n
}

// Callbacks for metrics integration
type Callbacks struct {
	OnAttempt            func(attempt int)
	OnConfirmed          func(lamports uint64, latency time.Duration)
	OnFailed             func(err error)
	OnDestinationSkipped func()
	OnAccountSkipped     func(status AccountStatus)
}
