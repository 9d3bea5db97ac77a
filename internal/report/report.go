// Package report turns a distribution run into summaries, tables and export files.
package report

import (
	"time"

	"github.com/0xmhha/soldrip/internal/distributor"
	"github.com/0xmhha/soldrip/internal/util/mathutil"
	"github.com/0xmhha/soldrip/pkg/types"
)

// Meta carries run details that the distributor does not track
type Meta struct {
	Endpoint          string
	StartTime         time.Time
	EndTime           time.Time
	RentExemptMinimum uint64
	RentFallbackUsed  bool
}

// Build flattens result into an exportable report
func Build(result *distributor.DistributionResult, meta Meta) *types.RunReport {
	report := &types.RunReport{
		Summary: types.RunSummary{
			StartTime:         meta.StartTime,
			EndTime:           meta.EndTime,
			Duration:          meta.EndTime.Sub(meta.StartTime),
			Endpoint:          meta.Endpoint,
			RentExemptMinimum: meta.RentExemptMinimum,
			RentFallbackUsed:  meta.RentFallbackUsed,
		},
		Accounts:  make([]types.AccountRecord, 0),
		Transfers: make([]types.TransferRecord, 0),
	}
	if result == nil {
		return report
	}

	s := &report.Summary
	s.Destinations = result.Destinations
	s.Accounts = len(result.Accounts)
	s.Processed = result.AccountsWithStatus(distributor.AccountProcessed)
	s.Insufficient = result.AccountsWithStatus(distributor.AccountInsufficient)
	s.InvalidAccounts = result.AccountsWithStatus(distributor.AccountInvalid)
	s.Unavailable = result.AccountsWithStatus(distributor.AccountUnavailable)
	s.Confirmed = result.Count(distributor.TransferConfirmed)
	s.Failed = result.Count(distributor.TransferFailed)
	s.Skipped = result.Count(distributor.TransferSkipped)
	s.Attempts = result.Attempts()
	s.LamportsSent = result.LamportsSent()

	for _, account := range result.Accounts {
		report.Accounts = append(report.Accounts, accountRecord(account))
		for _, t := range account.Transfers {
			report.Transfers = append(report.Transfers, transferRecord(t))
		}
	}

	return report
}

func accountRecord(a *distributor.AccountReport) types.AccountRecord {
	rec := types.AccountRecord{
		Index:        a.Index,
		Balance:      a.Balance,
		Status:       a.Status.String(),
		Confirmed:    a.Count(distributor.TransferConfirmed),
		Failed:       a.Count(distributor.TransferFailed),
		Skipped:      a.Count(distributor.TransferSkipped),
		LamportsSent: a.LamportsSent(),
	}
	if !a.Address.IsZero() {
		rec.Address = a.Address.String()
	}
	if a.Err != nil {
		rec.Error = a.Err.Error()
	}
	return rec
}

func transferRecord(t *distributor.TransferOutcome) types.TransferRecord {
	rec := types.TransferRecord{
		From:     t.From.String(),
		To:       t.To.String(),
		Lamports: t.Lamports,
		SOL:      mathutil.FormatSOL(t.Lamports),
		Status:   t.Status.String(),
		Attempts: t.Attempts,
	}
	if t.Status == distributor.TransferConfirmed {
		rec.Signature = t.Signature.String()
		rec.LatencyMs = t.Latency.Milliseconds()
	}
	if t.Err != nil {
		rec.Error = t.Err.Error()
	}
	return rec
}
