// Package ledger defines the canonical record types shared across the
// suggestion pipeline: bank transactions under review, historical Sage
// postings, and the suggestions the matcher produces for them.
//
// All types are plain values. Once parsed they are never mutated; the
// matcher and downstream consumers treat them as read-only snapshots.
package ledger

import "time"

// Direction tags a monetary movement by the sign of its amount.
type Direction string

const (
	Debit  Direction = "debit"
	Credit Direction = "credit"
)

// DirectionOf derives the direction from a signed amount.
func DirectionOf(amount float64) Direction {
	if amount < 0 {
		return Debit
	}
	return Credit
}

// Transaction is a normalized bank movement awaiting coding.
type Transaction struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Amount           float64   `json:"amount"`
	Direction        Direction `json:"direction"`
	DescriptionRaw   string    `json:"description_raw"`
	DescriptionClean string    `json:"description_clean"`
	AccountID        string    `json:"account_id"`
}

// HistoryEntry is one historical posting exported from Sage.
// VendorHint, when present, is a short prefix of the cleaned description
// used as the preferred vendor identity during profiling.
type HistoryEntry struct {
	ID               string    `json:"id"`
	Date             time.Time `json:"date"`
	Amount           float64   `json:"amount"`
	NominalCode      string    `json:"nominal_code"`
	TaxCode          string    `json:"tax_code"`
	DescriptionRaw   string    `json:"description_raw"`
	DescriptionClean string    `json:"description_clean"`
	VendorHint       string    `json:"vendor_hint,omitempty"`
}

// Suggestion is the matcher's verdict for a single transaction.
// Nominal and TaxCode are empty when no code could be proposed; Confidence
// is always within [0.0, 0.99] and Explanations records every signal that
// contributed to or was rejected from the score.
type Suggestion struct {
	TxnID        string   `json:"txn_id"`
	Nominal      string   `json:"nominal_suggested,omitempty"`
	TaxCode      string   `json:"tax_code_suggested,omitempty"`
	Confidence   float64  `json:"confidence"`
	Explanations []string `json:"explanations"`
}
