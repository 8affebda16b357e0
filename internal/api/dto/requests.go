package dto

import (
	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// SuggestRequest carries pre-parsed transactions and history for a
// stateless suggestion run.
type SuggestRequest struct {
	Transactions []ledger.Transaction  `json:"transactions"`
	History      []ledger.HistoryEntry `json:"history"`
}

// SuggestCSVRequest carries raw CSV payloads. The server parses both
// files and returns the parsed transactions alongside their suggestions.
type SuggestCSVRequest struct {
	BankCSV    string `json:"bank_csv"`
	HistoryCSV string `json:"history_csv"`
}

// ImportRequest loads transactions and their suggestions into the
// review queue. Reset clears any existing queue first.
type ImportRequest struct {
	Transactions []ledger.Transaction `json:"transactions"`
	Suggestions  []ledger.Suggestion  `json:"suggestions"`
	Reset        bool                 `json:"reset"`
}

// ApproveRequest accepts the suggested coding for a review item.
type ApproveRequest struct {
	Note string `json:"note,omitempty"`
}

// OverrideRequest replaces the suggested coding for a review item.
type OverrideRequest struct {
	NominalCode string `json:"nominal_code"`
	TaxCode     string `json:"tax_code"`
	Note        string `json:"note,omitempty"`
}

// AddRuleRequest creates a deterministic override rule.
type AddRuleRequest struct {
	Name        string `json:"name"`
	Pattern     string `json:"pattern"`
	NominalCode string `json:"nominal_code"`
	TaxCode     string `json:"tax_code"`
}

// ExportRequest renders the review queue as a Sage import CSV.
type ExportRequest struct {
	Profile      string `json:"profile,omitempty"`
	ReviewedOnly bool   `json:"reviewed_only"`
}
