// Package ingest parses bank and Sage history CSV exports into the
// canonical ledger records the matcher consumes.
//
// Real-world exports disagree on header names, date formats, and amount
// formatting, so both parsers resolve columns through ranked header
// aliases, accept several date layouts, and strip thousands separators.
// Malformed rows are dropped rather than propagated.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02/01/06",
}

// row is a single CSV record with headers lowercased and values trimmed.
type row map[string]string

// readRows decodes a CSV stream into normalized rows.
func readRows(r io.Reader) ([]row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, header := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	rows := make([]row, 0, len(records)-1)
	for _, record := range records[1:] {
		r := make(row, len(headers))
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			r[headers[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

// resolve returns the first non-empty value among the candidate headers.
func (r row) resolve(candidates ...string) (string, bool) {
	for _, candidate := range candidates {
		if value, ok := r[candidate]; ok && value != "" {
			return value, true
		}
	}
	return "", false
}

// parseDate tries the supported layouts in order.
func parseDate(value string) (time.Time, error) {
	candidate := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseAmount parses a monetary value, tolerating thousands separators.
func parseAmount(value string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(value, ",", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("amount column cannot be empty")
	}
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	amount, _ := parsed.Float64()
	return amount, nil
}

// deterministicID derives a stable v5 UUID from the row's identifying
// fields, so re-parsing the same export yields the same ids.
func deterministicID(parts ...string) string {
	trimmed := make([]string, len(parts))
	for i, part := range parts {
		trimmed[i] = strings.TrimSpace(part)
	}
	key := strings.Join(trimmed, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}
