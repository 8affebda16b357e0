package storage

import (
	"fmt"
	"sort"
	"time"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// MockRepository is an in-memory implementation of Repository for
// testing. It keeps items in a map and mirrors the SQLite semantics.
type MockRepository struct {
	items map[string]*ReviewItem
	order []string

	// Hooks for test assertions
	ImportBatchCalled bool
	ApproveCalled     bool
	OverrideCalled    bool

	// Error injection for testing error paths
	ImportBatchErr error
	ApproveErr     error
	OverrideErr    error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{items: make(map[string]*ReviewItem)}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// ImportBatch stores pending items in memory.
func (m *MockRepository) ImportBatch(
	txns []ledger.Transaction,
	suggestions []ledger.Suggestion,
	reset bool,
) ([]ReviewItem, error) {
	m.ImportBatchCalled = true
	if m.ImportBatchErr != nil {
		return nil, m.ImportBatchErr
	}
	if len(txns) != len(suggestions) {
		return nil, fmt.Errorf("transactions and suggestions must be the same length: %d != %d",
			len(txns), len(suggestions))
	}
	if reset {
		m.items = make(map[string]*ReviewItem)
		m.order = nil
	}
	now := time.Now().UTC()
	for i, txn := range txns {
		if _, exists := m.items[txn.ID]; !exists {
			m.order = append(m.order, txn.ID)
		}
		m.items[txn.ID] = &ReviewItem{
			Txn:          txn,
			Suggestion:   suggestions[i],
			Status:       StatusPending,
			NominalFinal: suggestions[i].Nominal,
			TaxCodeFinal: suggestions[i].TaxCode,
			Notes:        []string{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	return m.ListItems()
}

// ListItems returns items in import order.
func (m *MockRepository) ListItems() ([]ReviewItem, error) {
	order := append([]string(nil), m.order...)
	sort.SliceStable(order, func(i, j int) bool {
		return m.items[order[i]].CreatedAt.Before(m.items[order[j]].CreatedAt)
	})
	items := make([]ReviewItem, 0, len(order))
	for _, id := range order {
		items = append(items, *m.items[id])
	}
	return items, nil
}

// GetItem retrieves an item by transaction id.
func (m *MockRepository) GetItem(txnID string) (*ReviewItem, error) {
	item, ok := m.items[txnID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, txnID)
	}
	copied := *item
	return &copied, nil
}

// Approve marks an item approved.
func (m *MockRepository) Approve(txnID string, note string) (*ReviewItem, error) {
	m.ApproveCalled = true
	if m.ApproveErr != nil {
		return nil, m.ApproveErr
	}
	item, ok := m.items[txnID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, txnID)
	}
	if item.NominalFinal == "" {
		item.NominalFinal = item.Suggestion.Nominal
	}
	if item.TaxCodeFinal == "" {
		item.TaxCodeFinal = item.Suggestion.TaxCode
	}
	item.Status = StatusApproved
	if note != "" {
		item.Notes = append(item.Notes, note)
	}
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}

// Override marks an item overridden with new codes.
func (m *MockRepository) Override(txnID string, nominal, taxCode, note string) (*ReviewItem, error) {
	m.OverrideCalled = true
	if m.OverrideErr != nil {
		return nil, m.OverrideErr
	}
	item, ok := m.items[txnID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, txnID)
	}
	item.Status = StatusOverridden
	item.NominalFinal = nominal
	item.TaxCodeFinal = taxCode
	if note != "" {
		item.Notes = append(item.Notes, note)
	}
	item.UpdatedAt = time.Now().UTC()
	copied := *item
	return &copied, nil
}
