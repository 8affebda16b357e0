package ingest

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/normalize"
)

var (
	bankDateHeaders        = []string{"date", "transaction date"}
	bankAmountHeaders      = []string{"amount", "value", "net amount"}
	bankDescriptionHeaders = []string{"description", "details", "narrative", "description_raw"}
	bankAccountHeaders     = []string{"account", "account id", "account number"}
)

// DefaultAccountID is used when a bank export has no account column.
const DefaultAccountID = "default"

// BankParser parses bank CSV exports into canonical transactions.
type BankParser struct {
	logger *slog.Logger
}

// NewBankParser creates a bank CSV parser. A nil logger disables row-drop
// logging.
func NewBankParser(logger *slog.Logger) *BankParser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BankParser{logger: logger}
}

// Parse reads a bank CSV export. Rows missing required columns or with
// unparseable dates or amounts are dropped with a warning.
func (p *BankParser) Parse(r io.Reader) ([]ledger.Transaction, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	txns := make([]ledger.Transaction, 0, len(rows))
	for idx, row := range rows {
		txn, err := p.parseRow(row, idx+1)
		if err != nil {
			p.logger.Warn("dropping malformed bank row", "row", idx+1, "error", err)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (p *BankParser) parseRow(r row, line int) (ledger.Transaction, error) {
	dateRaw, ok := r.resolve(bankDateHeaders...)
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("no date column")
	}
	amountRaw, ok := r.resolve(bankAmountHeaders...)
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("no amount column")
	}
	descriptionRaw, ok := r.resolve(bankDescriptionHeaders...)
	if !ok {
		return ledger.Transaction{}, fmt.Errorf("no description column")
	}
	accountID, ok := r.resolve(bankAccountHeaders...)
	if !ok {
		accountID = DefaultAccountID
	}

	date, err := parseDate(dateRaw)
	if err != nil {
		return ledger.Transaction{}, err
	}
	amount, err := parseAmount(amountRaw)
	if err != nil {
		return ledger.Transaction{}, err
	}

	return ledger.Transaction{
		ID:               deterministicID(dateRaw, amountRaw, descriptionRaw, fmt.Sprint(line)),
		Date:             date,
		Amount:           amount,
		Direction:        ledger.DirectionOf(amount),
		DescriptionRaw:   descriptionRaw,
		DescriptionClean: normalize.Clean(descriptionRaw),
		AccountID:        accountID,
	}, nil
}
