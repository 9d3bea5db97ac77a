package types

import (
	"time"
)

// TransferRecord is one destination of one source account
type TransferRecord struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Lamports  uint64 `json:"lamports"`
	SOL       string `json:"sol"`
	Status    string `json:"status"`
	Attempts  int    `json:"attempts"`
	Signature string `json:"signature,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AccountRecord summarizes one source account
type AccountRecord struct {
	Index        int    `json:"index"`
	Address      string `json:"address,omitempty"`
	Balance      uint64 `json:"balance_lamports"`
	Status       string `json:"status"`
	Confirmed    int    `json:"confirmed"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	LamportsSent uint64 `json:"lamports_sent"`
	Error        string `json:"error,omitempty"`
}

// RunSummary holds the totals of a distribution run
type RunSummary struct {
	// Timing
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Network
	Endpoint          string `json:"endpoint"`
	RentExemptMinimum uint64 `json:"rent_exempt_minimum"`
	RentFallbackUsed  bool   `json:"rent_fallback_used"`

	// Accounts
	Accounts        int `json:"accounts"`
	Processed       int `json:"processed"`
	Insufficient    int `json:"insufficient"`
	InvalidAccounts int `json:"invalid"`
	Unavailable     int `json:"unavailable"`

	// Transfers
	Destinations int    `json:"destinations"`
	Confirmed    int    `json:"confirmed"`
	Failed       int    `json:"failed"`
	Skipped      int    `json:"skipped"`
	Attempts     int    `json:"attempts"`
	LamportsSent uint64 `json:"lamports_sent"`
}

// SuccessRate returns the confirmed share of attempted transfers in percent
func (s *RunSummary) SuccessRate() float64 {
	total := s.Confirmed + s.Failed
	if total == 0 {
		return 0
	}
	return float64(s.Confirmed) / float64(total) * 100
}

// RunReport is the exported form of a run
type RunReport struct {
	Summary   RunSummary       `json:"summary"`
	Accounts  []AccountRecord  `json:"accounts"`
	Transfers []TransferRecord `json:"transfers"`
}
