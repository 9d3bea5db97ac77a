package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/0xmhha/soldrip/pkg/types"
)

// ExportFormat represents the export format
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)

// Exporter writes run reports into an output directory
type Exporter struct {
	outputDir string
	now       func() time.Time
}

// NewExporter creates a new Exporter
func NewExporter(outputDir string) *Exporter {
	return &Exporter{
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Export writes report in format and returns the primary file written
func (e *Exporter) Export(report *types.RunReport, format ExportFormat) (string, error) {
	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := e.now().Format("20060102_150405")

	switch format {
	case FormatJSON:
		return e.exportJSON(report, timestamp)
	case FormatCSV:
		return e.exportCSV(report, timestamp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (e *Exporter) exportJSON(report *types.RunReport, timestamp string) (string, error) {
	filename := filepath.Join(e.outputDir, fmt.Sprintf("report_%s.json", timestamp))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return filename, nil
}

// exportCSV writes accounts and transfers as separate files and returns the transfers file
func (e *Exporter) exportCSV(report *types.RunReport, timestamp string) (string, error) {
	accountsFile := filepath.Join(e.outputDir, fmt.Sprintf("accounts_%s.csv", timestamp))
	accountRows := [][]string{{"Index", "Address", "Balance", "Status", "Confirmed", "Failed", "Skipped", "LamportsSent", "Error"}}
	for _, a := range report.Accounts {
		accountRows = append(accountRows, []string{
			strconv.Itoa(a.Index),
			a.Address,
			strconv.FormatUint(a.Balance, 10),
			a.Status,
			strconv.Itoa(a.Confirmed),
			strconv.Itoa(a.Failed),
			strconv.Itoa(a.Skipped),
			strconv.FormatUint(a.LamportsSent, 10),
			a.Error,
		})
	}
	if err := writeCSV(accountsFile, accountRows); err != nil {
		return "", err
	}

	transfersFile := filepath.Join(e.outputDir, fmt.Sprintf("transfers_%s.csv", timestamp))
	transferRows := [][]string{{"From", "To", "Lamports", "SOL", "Status", "Attempts", "Signature", "LatencyMs", "Error"}}
	for _, t := range report.Transfers {
		transferRows = append(transferRows, []string{
			t.From,
			t.To,
			strconv.FormatUint(t.Lamports, 10),
			t.SOL,
			t.Status,
			strconv.Itoa(t.Attempts),
			t.Signature,
			strconv.FormatInt(t.LatencyMs, 10),
			t.Error,
		})
	}
	if err := writeCSV(transfersFile, transferRows); err != nil {
		return "", err
	}

	return transfersFile, nil
}

func writeCSV(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filename, err)
	}
	return nil
}

// ExportAll exports the report in all formats
func (e *Exporter) ExportAll(report *types.RunReport) ([]string, error) {
	files := make([]string, 0, 2)

	jsonFile, err := e.Export(report, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to export JSON: %w", err)
	}
	files = append(files, jsonFile)

	csvFile, err := e.Export(report, FormatCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to export CSV: %w", err)
	}
	files = append(files, csvFile)

	return files, nil
}
