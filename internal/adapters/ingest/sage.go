package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/normalize"
)

var (
	sageDateHeaders      = []string{"date"}
	sageAmountHeaders    = []string{"net amount", "net"}
	sageDetailsHeaders   = []string{"details", "description"}
	sageNominalHeaders   = []string{"nominal code", "account"}
	sageTaxCodeHeaders   = []string{"tax code", "tax"}
	sageReferenceHeaders = []string{"reference", "ref"}
)

// SageParser parses Sage history exports into canonical history entries.
type SageParser struct {
	logger *slog.Logger
}

// NewSageParser creates a Sage history CSV parser.
func NewSageParser(logger *slog.Logger) *SageParser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SageParser{logger: logger}
}

// Parse reads a Sage history export, dropping malformed rows.
func (p *SageParser) Parse(r io.Reader) ([]ledger.HistoryEntry, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	entries := make([]ledger.HistoryEntry, 0, len(rows))
	for idx, row := range rows {
		entry, err := p.parseRow(row, idx+1)
		if err != nil {
			p.logger.Warn("dropping malformed history row", "row", idx+1, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (p *SageParser) parseRow(r row, line int) (ledger.HistoryEntry, error) {
	dateRaw, ok := r.resolve(sageDateHeaders...)
	if !ok {
		return ledger.HistoryEntry{}, fmt.Errorf("no date column")
	}
	amountRaw, ok := r.resolve(sageAmountHeaders...)
	if !ok {
		return ledger.HistoryEntry{}, fmt.Errorf("no net amount column")
	}
	descriptionRaw, ok := r.resolve(sageDetailsHeaders...)
	if !ok {
		return ledger.HistoryEntry{}, fmt.Errorf("no details column")
	}
	nominal, ok := r.resolve(sageNominalHeaders...)
	if !ok {
		return ledger.HistoryEntry{}, fmt.Errorf("no nominal code column")
	}
	taxCode, ok := r.resolve(sageTaxCodeHeaders...)
	if !ok {
		return ledger.HistoryEntry{}, fmt.Errorf("no tax code column")
	}
	reference, ok := r.resolve(sageReferenceHeaders...)
	if !ok {
		reference = fmt.Sprint(line)
	}

	date, err := parseDate(dateRaw)
	if err != nil {
		return ledger.HistoryEntry{}, err
	}
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return ledger.HistoryEntry{}, err
	}

	clean := normalize.Clean(descriptionRaw)

	return ledger.HistoryEntry{
		ID:               deterministicID(dateRaw, amountRaw, descriptionRaw, nominal, reference),
		Date:             date,
		Amount:           amount,
		NominalCode:      nominal,
		TaxCode:          taxCode,
		DescriptionRaw:   descriptionRaw,
		DescriptionClean: clean,
		VendorHint:       vendorHint(clean),
	}, nil
}

// vendorHint takes the first three tokens of the cleaned description as
// the vendor identity used during profiling.
func vendorHint(cleaned string) string {
	if cleaned == "" {
		return ""
	}
	tokens := strings.Fields(cleaned)
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " ")
}
