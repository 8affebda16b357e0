package storage

import (
	"time"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// ReviewStatus tracks where a review item sits in the human workflow.
type ReviewStatus string

const (
	StatusPending    ReviewStatus = "pending"
	StatusApproved   ReviewStatus = "approved"
	StatusOverridden ReviewStatus = "overridden"
)

// ReviewItem pairs a transaction with its suggestion and the reviewer's
// final decision. NominalFinal/TaxCodeFinal start as the suggested codes
// and are replaced on override.
type ReviewItem struct {
	Txn          ledger.Transaction `json:"txn"`
	Suggestion   ledger.Suggestion  `json:"suggestion"`
	Status       ReviewStatus       `json:"status"`
	NominalFinal string             `json:"nominal_final,omitempty"`
	TaxCodeFinal string             `json:"tax_code_final,omitempty"`
	Notes        []string           `json:"notes"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
