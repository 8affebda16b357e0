// Package matcher suggests nominal and tax codes for bank transactions
// by scoring them against profiles aggregated from historical postings.
//
// Matching is a single-pass decision tree per transaction: an exact alias
// hit wins outright, otherwise the best fuzzy alias above a minimum score
// drives scoring, otherwise the vendor-agnostic amount history is tried,
// otherwise a zero-confidence suggestion explains the miss. The matcher
// holds only the read-only profile snapshot built at construction, so a
// batch may be scored concurrently without synchronization.
//
// Example usage:
//
//	m := matcher.New(history, matcher.DefaultConfig())
//	suggestions := m.SuggestMany(transactions)
package matcher

import (
	"fmt"
	"math"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/normalize"
	"github.com/accountantiq/accountantiq-backend/internal/domain/profile"
)

const (
	aliasScoreWeight  = 0.6
	directionBonus    = 0.2
	amountBonus       = 0.1
	amountConfidence  = 0.65
	confidenceCeiling = 0.99
)

// Config holds matcher configuration.
type Config struct {
	MinFuzzyScore int // Minimum 0-100 fuzzy score to accept a vendor match
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{MinFuzzyScore: 60}
}

// Matcher scores transactions against a frozen history snapshot.
type Matcher struct {
	config   Config
	scorer   Scorer
	snapshot *profile.Snapshot
	index    *aliasIndex
}

// New builds a matcher from a history snapshot using the default
// token-set scorer.
func New(history []ledger.HistoryEntry, config Config) *Matcher {
	return NewWithScorer(history, config, TokenSetScorer{})
}

// NewWithScorer builds a matcher with a custom similarity scorer.
func NewWithScorer(history []ledger.HistoryEntry, config Config, scorer Scorer) *Matcher {
	snapshot := profile.Build(history)
	return &Matcher{
		config:   config,
		scorer:   scorer,
		snapshot: snapshot,
		index:    buildAliasIndex(snapshot),
	}
}

// Suggest produces a coding suggestion for a single transaction. Missing
// data is never an error: transactions with no usable match come back
// with confidence 0.0 and an explanation.
func (m *Matcher) Suggest(txn ledger.Transaction) ledger.Suggestion {
	if m.index.empty() {
		return ledger.Suggestion{
			TxnID:        txn.ID,
			Confidence:   0.0,
			Explanations: []string{"No vendor history available"},
		}
	}

	cleaned := txn.DescriptionClean
	if cleaned == "" {
		cleaned = normalize.Clean(txn.DescriptionRaw)
	}
	amountKey := profile.KeyFor(txn.Amount)

	vendor, matchScore := m.resolveVendor(cleaned)
	if vendor == nil || matchScore < m.config.MinFuzzyScore {
		if fallback, ok := m.amountFallback(txn, amountKey); ok {
			return fallback
		}
		return ledger.Suggestion{
			TxnID:        txn.ID,
			Confidence:   0.0,
			Explanations: []string{"No high-confidence vendor match found"},
		}
	}

	return m.scoreVendorMatch(txn, vendor, matchScore, amountKey)
}

// SuggestMany applies Suggest to each transaction independently,
// preserving input order. len(result) == len(txns) always holds.
func (m *Matcher) SuggestMany(txns []ledger.Transaction) []ledger.Suggestion {
	suggestions := make([]ledger.Suggestion, 0, len(txns))
	for _, txn := range txns {
		suggestions = append(suggestions, m.Suggest(txn))
	}
	return suggestions
}

// resolveVendor finds the vendor profile for a cleaned description: an
// exact alias hit scores 100, otherwise the best fuzzy alias is taken.
func (m *Matcher) resolveVendor(cleaned string) (*profile.Vendor, int) {
	if vendor, ok := m.index.resolve(cleaned); ok {
		return vendor, 100
	}
	alias, score := m.scorer.BestMatch(cleaned, m.index.aliases)
	if alias == "" {
		return nil, 0
	}
	vendor, ok := m.index.resolve(alias)
	if !ok {
		return nil, 0
	}
	return vendor, score
}

func (m *Matcher) scoreVendorMatch(
	txn ledger.Transaction,
	vendor *profile.Vendor,
	matchScore int,
	amountKey profile.AmountKey,
) ledger.Suggestion {
	var explanations []string
	confidence := math.Min(aliasScoreWeight, float64(matchScore)/100*aliasScoreWeight)

	if matchScore == 100 {
		explanations = append(explanations,
			fmt.Sprintf("Exact vendor alias match '%s'", vendor.Key))
	} else {
		explanations = append(explanations,
			fmt.Sprintf("Fuzzy vendor match '%s' with score %d", vendor.Key, matchScore))
	}

	nominal, hasNominal := vendor.DominantNominal()
	taxCode, hasTax := vendor.DominantTaxCode()
	if !hasNominal || !hasTax {
		explanations = append(explanations, "Vendor profile lacks sufficient coding history")
	}

	if dominant, ok := vendor.DominantDirection(); ok {
		if txn.Direction == dominant {
			confidence += directionBonus
			explanations = append(explanations,
				fmt.Sprintf("Transaction direction matches historical %s postings", dominant))
		} else {
			explanations = append(explanations,
				fmt.Sprintf("Direction mismatch between transaction direction %s and history %s",
					txn.Direction, dominant))
		}
	}

	if median, ok := vendor.MedianAmount(); ok {
		tolerance := math.Max(1.0, median*0.15)
		delta := math.Abs(math.Abs(txn.Amount) - median)
		if delta <= tolerance {
			confidence += amountBonus
			explanations = append(explanations,
				fmt.Sprintf("Amount within tolerance of historical median %.2f (|delta|=%.2f, tol=%.2f)",
					median, delta, tolerance))
		} else {
			explanations = append(explanations,
				fmt.Sprintf("Amount differs from historical median %.2f by %.2f (tol %.2f)",
					median, delta, tolerance))
		}
	}

	// A vendor with no coding history can still borrow codes from the
	// amount history for this exact amount.
	if !hasNominal {
		if group, ok := m.snapshot.Amount(amountKey); ok {
			if groupNominal, ok := group.DominantNominal(); ok {
				nominal = groupNominal
				if groupTax, ok := group.DominantTaxCode(); ok {
					taxCode = groupTax
				}
				explanations = append(explanations,
					fmt.Sprintf("Nominal %s adopted from amount history for %.2f",
						nominal, amountKey.Amount))
				confidence = math.Max(confidence, amountConfidence)
			}
		}
	}

	confidence = math.Min(confidence, confidenceCeiling)

	return ledger.Suggestion{
		TxnID:        txn.ID,
		Nominal:      nominal,
		TaxCode:      taxCode,
		Confidence:   round2(confidence),
		Explanations: explanations,
	}
}

// amountFallback suggests codes purely from the amount history when no
// usable vendor match exists.
func (m *Matcher) amountFallback(txn ledger.Transaction, key profile.AmountKey) (ledger.Suggestion, bool) {
	group, ok := m.snapshot.Amount(key)
	if !ok {
		return ledger.Suggestion{}, false
	}
	nominal, hasNominal := group.DominantNominal()
	taxCode, hasTax := group.DominantTaxCode()
	if !hasNominal && !hasTax {
		return ledger.Suggestion{}, false
	}
	return ledger.Suggestion{
		TxnID:      txn.ID,
		Nominal:    nominal,
		TaxCode:    taxCode,
		Confidence: amountConfidence,
		Explanations: []string{
			fmt.Sprintf("Amount match for historical %s postings of %.2f",
				key.Direction, key.Amount),
		},
	}, true
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
