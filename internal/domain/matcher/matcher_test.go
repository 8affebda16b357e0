package matcher

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

func makeHistory(amount float64, nominal, tax, desc string) ledger.HistoryEntry {
	return ledger.HistoryEntry{
		ID:               "hist-" + desc,
		Date:             time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Amount:           amount,
		NominalCode:      nominal,
		TaxCode:          tax,
		DescriptionRaw:   desc,
		DescriptionClean: desc,
	}
}

func makeTxn(id string, amount float64, desc string) ledger.Transaction {
	return ledger.Transaction{
		ID:               id,
		Date:             time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:           amount,
		Direction:        ledger.DirectionOf(amount),
		DescriptionRaw:   desc,
		DescriptionClean: desc,
		AccountID:        "acc-1",
	}
}

func joinedExplanations(s ledger.Suggestion) string {
	return strings.ToLower(strings.Join(s.Explanations, " | "))
}

func TestSuggest_EmptyHistory(t *testing.T) {
	m := New(nil, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", -50.00, "wrights uk ltd inv"))

	assert.Equal(t, "t1", suggestion.TxnID)
	assert.Equal(t, 0.0, suggestion.Confidence)
	assert.Empty(t, suggestion.Nominal)
	require.Len(t, suggestion.Explanations, 1)
	assert.Equal(t, "No vendor history available", suggestion.Explanations[0])
}

func TestSuggest_ExactMatchKnownVendor(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", -105.00, "wrights uk ltd inv"))

	assert.Equal(t, "5100", suggestion.Nominal)
	assert.Equal(t, "T1", suggestion.TaxCode)
	assert.GreaterOrEqual(t, suggestion.Confidence, 0.7)
	assert.Contains(t, joinedExplanations(suggestion), "vendor")
	assert.Contains(t, suggestion.Explanations[0], "Exact vendor alias match")
	assert.NotContains(t, joinedExplanations(suggestion), "fuzzy")
}

func TestSuggest_ExactMatchFullBonuses(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	// Same direction, same amount: 0.6 base + 0.2 direction + 0.1 amount.
	suggestion := m.Suggest(makeTxn("t1", -100.00, "wrights uk ltd inv"))

	assert.InDelta(t, 0.9, suggestion.Confidence, 0.001)
}

func TestSuggest_FuzzyMatch(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	// Token order scrambled plus an extra token: still the same vendor.
	suggestion := m.Suggest(makeTxn("t1", -100.00, "ltd uk wrights"))

	assert.Equal(t, "5100", suggestion.Nominal)
	assert.Contains(t, joinedExplanations(suggestion), "vendor")
	assert.Greater(t, suggestion.Confidence, 0.0)
}

func TestSuggest_NoMatchAtAll(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", -999.99, "zzzq"))

	assert.Equal(t, 0.0, suggestion.Confidence)
	assert.Empty(t, suggestion.Nominal)
	assert.Contains(t, joinedExplanations(suggestion), "no high-confidence")
}

func TestSuggest_AmountFallback(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-250.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	// Fresh description with no token overlap, but the exact debit amount
	// appears in history.
	suggestion := m.Suggest(makeTxn("t1", -250.00, "zzzq"))

	assert.Equal(t, "5100", suggestion.Nominal)
	assert.Equal(t, "T1", suggestion.TaxCode)
	assert.GreaterOrEqual(t, suggestion.Confidence, 0.6)
	assert.Contains(t, joinedExplanations(suggestion), "amount match")
}

func TestSuggest_AmountFallbackRespectsDirection(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-250.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	// Same magnitude but a credit: the debit amount group must not fire.
	suggestion := m.Suggest(makeTxn("t1", 250.00, "zzzq"))

	assert.Equal(t, 0.0, suggestion.Confidence)
	assert.Contains(t, joinedExplanations(suggestion), "no high-confidence")
}

func TestSuggest_DirectionMismatchSkipsBonus(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
		makeHistory(-110.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	matched := m.Suggest(makeTxn("t1", -105.00, "wrights uk ltd inv"))
	mismatched := m.Suggest(makeTxn("t2", 105.00, "wrights uk ltd inv"))

	assert.Equal(t, "5100", mismatched.Nominal)
	assert.Equal(t, "T1", mismatched.TaxCode)
	assert.InDelta(t, matched.Confidence-0.2, mismatched.Confidence, 0.001)
	assert.Contains(t, joinedExplanations(mismatched), "direction mismatch")
}

func TestSuggest_AmountToleranceBoundary(t *testing.T) {
	// Median 100.0 gives tolerance max(1.0, 15.0) = 15.0.
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "acme supplies ltd"),
	}
	m := New(history, DefaultConfig())

	within := m.Suggest(makeTxn("t1", -115.00, "acme supplies ltd"))
	outside := m.Suggest(makeTxn("t2", -116.00, "acme supplies ltd"))

	assert.Contains(t, joinedExplanations(within), "within tolerance")
	assert.Contains(t, joinedExplanations(outside), "differs from historical median")
	assert.InDelta(t, within.Confidence-0.1, outside.Confidence, 0.001)
}

func TestSuggest_ConfidenceBounds(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
		makeHistory(250.00, "4000", "T0", "customer receipt april"),
	}
	m := New(history, DefaultConfig())

	txns := []ledger.Transaction{
		makeTxn("t1", -100.00, "wrights uk ltd inv"),
		makeTxn("t2", 250.00, "customer receipt april"),
		makeTxn("t3", -42.42, "zzzq"),
		makeTxn("t4", 250.00, "unrelated words entirely"),
	}

	for _, suggestion := range m.SuggestMany(txns) {
		assert.GreaterOrEqual(t, suggestion.Confidence, 0.0)
		assert.LessOrEqual(t, suggestion.Confidence, 0.99)
		rounded := float64(int(suggestion.Confidence*100+0.5)) / 100
		assert.InDelta(t, rounded, suggestion.Confidence, 1e-9, "confidence rounded to 2dp")
	}
}

func TestSuggestMany_PreservesOrderAndLength(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	txns := make([]ledger.Transaction, 0, 20)
	for i := 0; i < 20; i++ {
		txns = append(txns, makeTxn(fmt.Sprintf("t%02d", i), -float64(i+1), "wrights uk ltd inv"))
	}

	suggestions := m.SuggestMany(txns)

	require.Len(t, suggestions, len(txns))
	for i, suggestion := range suggestions {
		assert.Equal(t, txns[i].ID, suggestion.TxnID)
	}
}

func TestSuggest_DoesNotMutateState(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	txn := makeTxn("t1", -100.00, "wrights uk ltd inv")
	first := m.Suggest(txn)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Suggest(txn))
	}
}

func TestSuggest_NormalizesRawDescriptionWhenCleanMissing(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "5100", "T1", "wrights uk ltd inv"),
	}
	m := New(history, DefaultConfig())

	txn := makeTxn("t1", -100.00, "")
	txn.DescriptionClean = ""
	txn.DescriptionRaw = "WRIGHTS (UK) LTD. INV 10423"

	suggestion := m.Suggest(txn)
	assert.Equal(t, "5100", suggestion.Nominal)
}

func TestSuggest_LastWriteWinsOnAliasCollision(t *testing.T) {
	// Both vendors generate the 2-token prefix alias "acme supplies".
	history := []ledger.HistoryEntry{
		makeHistory(-10.00, "5100", "T1", "acme supplies north"),
		makeHistory(-20.00, "5200", "T0", "acme supplies south"),
	}
	m := New(history, DefaultConfig())

	txn := makeTxn("t1", -20.00, "acme supplies")
	suggestion := m.Suggest(txn)

	// The later-registered vendor owns the shared alias.
	assert.Equal(t, "5200", suggestion.Nominal)
}

func TestSuggest_AdoptsNominalFromAmountHistory(t *testing.T) {
	// The matched vendor has only uncoded postings; a coded posting from
	// an unrelated vendor shares the credit-200 amount group.
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "", "", "blank vendor co"),
		makeHistory(200.00, "4000", "T0", "unrelated credit sale"),
	}
	m := New(history, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", 200.00, "blank vendor co"))

	assert.Equal(t, "4000", suggestion.Nominal)
	assert.Equal(t, "T0", suggestion.TaxCode)
	// Exact match (0.6), no direction or amount bonus, raised to the
	// amount-history floor.
	assert.InDelta(t, 0.65, suggestion.Confidence, 0.001)
	assert.Contains(t, joinedExplanations(suggestion), "adopted from amount history")
	assert.Contains(t, joinedExplanations(suggestion), "lacks sufficient coding history")
}

func TestSuggest_AdoptionKeepsHigherScoredConfidence(t *testing.T) {
	// When the vendor match already scores above the floor, adoption
	// supplies the codes without pulling the confidence down.
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "", "", "blank vendor co"),
		makeHistory(-100.00, "5000", "T1", "unrelated coded vendor"),
	}
	m := New(history, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", -100.00, "blank vendor co"))

	assert.Equal(t, "5000", suggestion.Nominal)
	// Exact match + direction bonus + amount bonus.
	assert.InDelta(t, 0.9, suggestion.Confidence, 0.001)
	assert.Contains(t, joinedExplanations(suggestion), "adopted from amount history")
}

func TestSuggest_BlankCodesDegradeToAbsent(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-100.00, "", "", "blank vendor co"),
	}
	m := New(history, DefaultConfig())

	suggestion := m.Suggest(makeTxn("t1", -100.00, "blank vendor co"))

	// The vendor still matches, but blank codes are missing data, not a
	// dominant value to suggest.
	assert.Empty(t, suggestion.Nominal)
	assert.Empty(t, suggestion.TaxCode)
	assert.Greater(t, suggestion.Confidence, 0.0)
	assert.Contains(t, joinedExplanations(suggestion), "lacks sufficient coding history")
}

func TestSuggest_BlankOnlyAmountGroupDoesNotFallback(t *testing.T) {
	history := []ledger.HistoryEntry{
		makeHistory(-75.00, "", "", "blank vendor co"),
	}
	m := New(history, DefaultConfig())

	// No vendor match, and the only debit-75 postings are uncoded, so the
	// amount fallback must not produce a 0.65 suggestion with empty codes.
	suggestion := m.Suggest(makeTxn("t1", -75.00, "zzzq"))

	assert.Empty(t, suggestion.Nominal)
	assert.Empty(t, suggestion.TaxCode)
	assert.Equal(t, 0.0, suggestion.Confidence)
	assert.Contains(t, joinedExplanations(suggestion), "no high-confidence")
}
