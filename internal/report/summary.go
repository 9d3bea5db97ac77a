package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/0xmhha/soldrip/internal/util/mathutil"
	"github.com/0xmhha/soldrip/pkg/types"
)

// PrintAccounts renders one row per source account with a totals footer
func PrintAccounts(w io.Writer, report *types.RunReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Account", "Balance (SOL)", "Status", "Confirmed", "Failed", "Skipped", "Sent (SOL)"})
	table.SetBorder(true)

	for _, a := range report.Accounts {
		address := a.Address
		if address == "" {
			address = "-"
		}
		table.Append([]string{
			fmt.Sprintf("%d", a.Index+1),
			address,
			mathutil.FormatSOL(a.Balance),
			a.Status,
			fmt.Sprintf("%d", a.Confirmed),
			fmt.Sprintf("%d", a.Failed),
			fmt.Sprintf("%d", a.Skipped),
			mathutil.FormatSOL(a.LamportsSent),
		})
	}

	s := report.Summary
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d accounts", s.Accounts),
		"-",
		fmt.Sprintf("%d processed", s.Processed),
		fmt.Sprintf("%d", s.Confirmed),
		fmt.Sprintf("%d", s.Failed),
		fmt.Sprintf("%d", s.Skipped),
		mathutil.FormatSOL(s.LamportsSent),
	})

	table.Render()
}

// PrintSummary renders the run totals as a two-column table
func PrintSummary(w io.Writer, report *types.RunReport) {
	s := report.Summary

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(true)

	rent := mathutil.FormatSOL(s.RentExemptMinimum) + " SOL"
	if s.RentFallbackUsed {
		rent += " (fallback)"
	}

	table.AppendBulk([][]string{
		{"Endpoint", s.Endpoint},
		{"Duration", s.Duration.Round(time.Millisecond).String()},
		{"Rent-exempt minimum", rent},
		{"Destinations", fmt.Sprintf("%d", s.Destinations)},
		{"Accounts", fmt.Sprintf("%d", s.Accounts)},
		{"Insufficient balance", fmt.Sprintf("%d", s.Insufficient)},
		{"Invalid credentials", fmt.Sprintf("%d", s.InvalidAccounts)},
		{"Balance unavailable", fmt.Sprintf("%d", s.Unavailable)},
		{"Transfers confirmed", fmt.Sprintf("%d", s.Confirmed)},
		{"Transfers failed", fmt.Sprintf("%d", s.Failed)},
		{"Transfers skipped", fmt.Sprintf("%d", s.Skipped)},
		{"Attempts", fmt.Sprintf("%d", s.Attempts)},
		{"Success rate", fmt.Sprintf("%.2f%%", s.SuccessRate())},
		{"SOL sent", mathutil.FormatSOL(s.LamportsSent)},
	})

	table.Render()
}
