// Package exporter renders reviewed items into column-configurable flat
// files suitable for import back into Sage.
package exporter

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/accountantiq/accountantiq-backend/internal/infrastructure/storage"
)

// fieldResolvers maps profile field names to review item accessors.
// Unknown fields render as empty cells rather than failing the export.
var fieldResolvers = map[string]func(storage.ReviewItem) string{
	"transaction_id": func(item storage.ReviewItem) string { return item.Txn.ID },
	"date":           func(item storage.ReviewItem) string { return item.Txn.Date.Format("2006-01-02") },
	"details":        func(item storage.ReviewItem) string { return item.Txn.DescriptionRaw },
	"description":    func(item storage.ReviewItem) string { return item.Txn.DescriptionRaw },
	"account_id":     func(item storage.ReviewItem) string { return item.Txn.AccountID },
	"direction":      func(item storage.ReviewItem) string { return string(item.Txn.Direction) },
	"nominal_code": func(item storage.ReviewItem) string {
		if item.NominalFinal != "" {
			return item.NominalFinal
		}
		return item.Suggestion.Nominal
	},
	"tax_code": func(item storage.ReviewItem) string {
		if item.TaxCodeFinal != "" {
			return item.TaxCodeFinal
		}
		return item.Suggestion.TaxCode
	},
	"net_amount": func(item storage.ReviewItem) string {
		return fmt.Sprintf("%.2f", item.Txn.Amount)
	},
	"confidence": func(item storage.ReviewItem) string {
		return fmt.Sprintf("%d", int(math.Round(item.Suggestion.Confidence*100)))
	},
	"status": func(item storage.ReviewItem) string { return string(item.Status) },
}

// BuildRow renders one review item under a profile's column layout.
func BuildRow(item storage.ReviewItem, profile Profile) []string {
	row := make([]string, 0, len(profile.Columns))
	for _, column := range profile.Columns {
		resolver, ok := fieldResolvers[column.Field]
		if !ok {
			row = append(row, "")
			continue
		}
		row = append(row, resolver(item))
	}
	return row
}

// Export writes the items to a timestamped CSV in outputDir and returns
// the written path.
func Export(outputDir string, items []storage.ReviewItem, profile Profile) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	destination := filepath.Join(outputDir, fmt.Sprintf("sage_import_%s.csv", timestamp))

	file, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	headers := make([]string, 0, len(profile.Columns))
	for _, column := range profile.Columns {
		headers = append(headers, column.Header)
	}
	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}

	for _, item := range items {
		if err := writer.Write(BuildRow(item, profile)); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	return destination, nil
}

// Reviewed filters to items a human has signed off on.
func Reviewed(items []storage.ReviewItem) []storage.ReviewItem {
	reviewed := make([]storage.ReviewItem, 0, len(items))
	for _, item := range items {
		if item.Status != storage.StatusPending {
			reviewed = append(reviewed, item)
		}
	}
	return reviewed
}
