package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/0xmhha/soldrip/internal/util/mathutil"
)

// Defaults reproduce the devnet distribution run when no flag is given
const (
	DefaultURL             = "https://devnet.sonic.game/"
	DefaultKeysFile        = "privateKeys8.json"
	DefaultSkipLogFile     = "notBalance.txt"
	DefaultCommitment      = "confirmed"
	DefaultMinDestinations = 108
	DefaultMaxDestinations = 120
	DefaultMinAmount       = 0.0011
	DefaultMaxAmount       = 0.001199
	DefaultMinBalance      = 0.0011
	DefaultRentFallback    = 0.001
	DefaultRetries         = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultMinDelay        = 500 * time.Millisecond
	DefaultMaxDelay        = 1500 * time.Millisecond
	DefaultConfirmTimeout  = 60 * time.Second
	DefaultPollInterval    = 500 * time.Millisecond
	DefaultMetricsPort     = 9090
	DefaultOutputDir       = "./reports"
	DefaultLogLevel        = "info"
)

// Config holds all configuration for a distribution run
type Config struct {
	// RPC connection
	URL        string
	Commitment string

	// Files
	KeysFile    string
	SkipLogFile string

	// Destinations
	MinDestinations int
	MaxDestinations int

	// Amounts in SOL
	MinAmount    float64
	MaxAmount    float64
	MinBalance   float64
	RentFallback float64

	// Retry and pacing
	Retries    int
	RetryDelay time.Duration
	MinDelay   time.Duration
	MaxDelay   time.Duration

	// Confirmation
	ConfirmTimeout time.Duration
	PollInterval   time.Duration

	// Advanced
	RateLimit float64

	// Prometheus metrics
	MetricsEnabled bool
	MetricsPort    int

	// Output
	Export    bool
	OutputDir string
	Verbose   bool
	LogLevel  string
	NoColor   bool
}

// Amounts holds the SOL settings converted to lamports
type Amounts struct {
	MinAmount    uint64
	MaxAmount    uint64
	MinBalance   uint64
	RentFallback uint64
}

var httpRegex = regexp.MustCompile(`^https?://`)

// Default returns the configuration used when no flag is given
func Default() *Config {
	return &Config{
		URL:             DefaultURL,
		Commitment:      DefaultCommitment,
		KeysFile:        DefaultKeysFile,
		SkipLogFile:     DefaultSkipLogFile,
		MinDestinations: DefaultMinDestinations,
		MaxDestinations: DefaultMaxDestinations,
		MinAmount:       DefaultMinAmount,
		MaxAmount:       DefaultMaxAmount,
		MinBalance:      DefaultMinBalance,
		RentFallback:    DefaultRentFallback,
		Retries:         DefaultRetries,
		RetryDelay:      DefaultRetryDelay,
		MinDelay:        DefaultMinDelay,
		MaxDelay:        DefaultMaxDelay,
		ConfirmTimeout:  DefaultConfirmTimeout,
		PollInterval:    DefaultPollInterval,
		MetricsPort:     DefaultMetricsPort,
		OutputDir:       DefaultOutputDir,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate URL
	if c.URL == "" {
		return errors.New("url is required")
	}
	if !httpRegex.MatchString(c.URL) {
		return errors.New("url must be a valid HTTP URL")
	}

	switch strings.ToLower(c.Commitment) {
	case "processed", "confirmed", "finalized":
	case "":
		c.Commitment = DefaultCommitment
	default:
		return errors.New("commitment must be processed, confirmed, or finalized")
	}

	if c.KeysFile == "" {
		return errors.New("keys file is required")
	}
	if c.SkipLogFile == "" {
		return errors.New("skip log file is required")
	}

	if c.MinDestinations <= 0 {
		return errors.New("min-destinations must be greater than 0")
	}
	if c.MaxDestinations < c.MinDestinations {
		return errors.New("max-destinations must be greater than or equal to min-destinations")
	}

	amounts, err := c.Amounts()
	if err != nil {
		return err
	}
	if amounts.MinAmount == 0 {
		return errors.New("min-amount must be greater than 0")
	}
	if amounts.MaxAmount < amounts.MinAmount {
		return errors.New("max-amount must be greater than or equal to min-amount")
	}

	if c.Retries <= 0 {
		return errors.New("retries must be greater than 0")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry-delay must not be negative")
	}
	if c.MinDelay < 0 {
		return errors.New("min-delay must not be negative")
	}
	if c.MaxDelay < c.MinDelay {
		return errors.New("max-delay must be greater than or equal to min-delay")
	}
	if c.RateLimit < 0 {
		return errors.New("rate-limit must not be negative")
	}

	// Set defaults
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = DefaultConfirmTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MetricsEnabled && c.MetricsPort == 0 {
		c.MetricsPort = DefaultMetricsPort
	}
	if c.Export && c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Verbose {
		c.LogLevel = "debug"
	}

	return nil
}

// Amounts converts the SOL amount settings to lamports
func (c *Config) Amounts() (Amounts, error) {
	var a Amounts
	fields := []struct {
		name string
		sol  float64
		dst  *uint64
	}{
		{"min-amount", c.MinAmount, &a.MinAmount},
		{"max-amount", c.MaxAmount, &a.MaxAmount},
		{"min-balance", c.MinBalance, &a.MinBalance},
		{"rent-fallback", c.RentFallback, &a.RentFallback},
	}
	for _, f := range fields {
		lamports, err := mathutil.SOLToLamports(f.sol)
		if err != nil {
			return Amounts{}, fmt.Errorf("invalid %s: %w", f.name, err)
		}
		*f.dst = lamports
	}
	return a, nil
}
