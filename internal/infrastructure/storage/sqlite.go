// Package storage persists the human review queue: each bank transaction
// imported for review is stored alongside its suggestion and tracked
// through the pending -> approved/overridden workflow.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// ErrNotFound is returned when a transaction is not in the review queue.
var ErrNotFound = fmt.Errorf("review item not found")

// Storage provides SQLite-backed review queue access. It implements the
// Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens (or creates) the review database at dbPath and runs
// all pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// ImportBatch loads transactions and their suggestions into the queue as
// pending items. With reset it replaces the whole queue first. The two
// slices must be the same length.
func (s *Storage) ImportBatch(
	txns []ledger.Transaction,
	suggestions []ledger.Suggestion,
	reset bool,
) ([]ReviewItem, error) {
	if len(txns) != len(suggestions) {
		return nil, fmt.Errorf("transactions and suggestions must be the same length: %d != %d",
			len(txns), len(suggestions))
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if reset {
		if _, err := tx.Exec("DELETE FROM review_items"); err != nil {
			return nil, fmt.Errorf("failed to reset review queue: %w", err)
		}
	}

	for i, txn := range txns {
		suggestion := suggestions[i]
		txnJSON, err := json.Marshal(txn)
		if err != nil {
			return nil, err
		}
		suggestionJSON, err := json.Marshal(suggestion)
		if err != nil {
			return nil, err
		}

		_, err = tx.Exec(`
			INSERT OR REPLACE INTO review_items (
				txn_id, txn_json, suggestion_json, status,
				nominal_final, tax_code_final, notes_json,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			txn.ID,
			string(txnJSON),
			string(suggestionJSON),
			string(StatusPending),
			nullable(suggestion.Nominal),
			nullable(suggestion.TaxCode),
			"[]",
			now,
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert review item %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.ListItems()
}

// ListItems returns all review items ordered by creation time.
func (s *Storage) ListItems() ([]ReviewItem, error) {
	rows, err := s.db.Query(`
		SELECT txn_json, suggestion_json, status, nominal_final, tax_code_final,
		       notes_json, created_at, updated_at
		FROM review_items
		ORDER BY created_at ASC, txn_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ReviewItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetItem retrieves one review item by transaction id.
func (s *Storage) GetItem(txnID string) (*ReviewItem, error) {
	row := s.db.QueryRow(`
		SELECT txn_json, suggestion_json, status, nominal_final, tax_code_final,
		       notes_json, created_at, updated_at
		FROM review_items
		WHERE txn_id = ?
	`, txnID)

	item, err := scanItem(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, txnID)
		}
		return nil, err
	}
	return &item, nil
}

// Approve marks an item approved. Finals already present are kept;
// otherwise the suggested codes become the finals.
func (s *Storage) Approve(txnID string, note string) (*ReviewItem, error) {
	item, err := s.GetItem(txnID)
	if err != nil {
		return nil, err
	}

	nominal := item.NominalFinal
	if nominal == "" {
		nominal = item.Suggestion.Nominal
	}
	taxCode := item.TaxCodeFinal
	if taxCode == "" {
		taxCode = item.Suggestion.TaxCode
	}

	return s.finalize(item, StatusApproved, nominal, taxCode, note)
}

// Override marks an item overridden with the reviewer's codes.
func (s *Storage) Override(txnID string, nominal, taxCode, note string) (*ReviewItem, error) {
	item, err := s.GetItem(txnID)
	if err != nil {
		return nil, err
	}
	return s.finalize(item, StatusOverridden, nominal, taxCode, note)
}

func (s *Storage) finalize(
	item *ReviewItem,
	status ReviewStatus,
	nominal, taxCode, note string,
) (*ReviewItem, error) {
	notes := item.Notes
	if note != "" {
		notes = append(notes, note)
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Exec(`
		UPDATE review_items
		SET status = ?, nominal_final = ?, tax_code_final = ?,
		    notes_json = ?, updated_at = ?
		WHERE txn_id = ?
	`,
		string(status),
		nullable(nominal),
		nullable(taxCode),
		string(notesJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
		item.Txn.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update review item %s: %w", item.Txn.ID, err)
	}

	return s.GetItem(item.Txn.ID)
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (ReviewItem, error) {
	var (
		item           ReviewItem
		txnJSON        string
		suggestionJSON string
		status         string
		nominalFinal   sql.NullString
		taxCodeFinal   sql.NullString
		notesJSON      string
		createdAt      string
		updatedAt      string
	)

	err := row.Scan(&txnJSON, &suggestionJSON, &status, &nominalFinal,
		&taxCodeFinal, &notesJSON, &createdAt, &updatedAt)
	if err != nil {
		return ReviewItem{}, err
	}

	if err := json.Unmarshal([]byte(txnJSON), &item.Txn); err != nil {
		return ReviewItem{}, fmt.Errorf("corrupt txn_json: %w", err)
	}
	if err := json.Unmarshal([]byte(suggestionJSON), &item.Suggestion); err != nil {
		return ReviewItem{}, fmt.Errorf("corrupt suggestion_json: %w", err)
	}
	if err := json.Unmarshal([]byte(notesJSON), &item.Notes); err != nil {
		return ReviewItem{}, fmt.Errorf("corrupt notes_json: %w", err)
	}

	item.Status = ReviewStatus(status)
	item.NominalFinal = nominalFinal.String
	item.TaxCodeFinal = taxCodeFinal.String

	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return ReviewItem{}, fmt.Errorf("corrupt created_at: %w", err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return ReviewItem{}, fmt.Errorf("corrupt updated_at: %w", err)
	}

	return item, nil
}

// nullable maps empty strings to NULL so absent codes stay absent.
func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
