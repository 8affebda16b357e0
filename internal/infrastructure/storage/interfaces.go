package storage

import (
	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// Repository defines the review-queue storage interface. It allows
// swapping implementations (SQLite, PostgreSQL, ...) and makes testing
// with mocks straightforward.
type Repository interface {
	// ImportBatch replaces or extends the queue with transactions and
	// their suggestions. The two slices must have equal length; a
	// mismatch is a contract violation, not data to be truncated.
	ImportBatch(txns []ledger.Transaction, suggestions []ledger.Suggestion, reset bool) ([]ReviewItem, error)

	// ListItems returns all review items ordered by creation time.
	ListItems() ([]ReviewItem, error)

	// GetItem retrieves one item by transaction id.
	GetItem(txnID string) (*ReviewItem, error)

	// Approve marks an item approved, keeping any finals already set and
	// otherwise copying the suggested codes.
	Approve(txnID string, note string) (*ReviewItem, error)

	// Override marks an item overridden with reviewer-supplied codes.
	Override(txnID string, nominal, taxCode, note string) (*ReviewItem, error)

	Close() error
}
