// Package profile aggregates historical postings into the read-only
// statistical profiles the matcher scores against: per-vendor coding
// history and a vendor-agnostic grouping by (direction, amount).
//
// Profiles are built once per matching session from a full history
// snapshot and never mutated afterward, so concurrent readers need no
// synchronization.
package profile

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
)

// Vendor holds the aggregated signals for one normalized vendor identity.
type Vendor struct {
	Key        string
	aliases    []string
	aliasSeen  map[string]struct{}
	Nominals   *Counter
	TaxCodes   *Counter
	Directions *Counter
	Amounts    []float64
}

func newVendor(key string) *Vendor {
	return &Vendor{
		Key:        key,
		aliasSeen:  make(map[string]struct{}),
		Nominals:   NewCounter(),
		TaxCodes:   NewCounter(),
		Directions: NewCounter(),
	}
}

// addAlias records an alias variant, preserving first-insertion order.
func (v *Vendor) addAlias(alias string) {
	if alias == "" {
		return
	}
	if _, ok := v.aliasSeen[alias]; ok {
		return
	}
	v.aliasSeen[alias] = struct{}{}
	v.aliases = append(v.aliases, alias)
}

// Aliases returns the alias variants in registration order.
func (v *Vendor) Aliases() []string {
	return v.aliases
}

// register folds one posting's coding into the vendor's counters.
func (v *Vendor) register(entry ledger.HistoryEntry) {
	v.Nominals.Add(entry.NominalCode)
	v.TaxCodes.Add(entry.TaxCode)
	v.Directions.Add(string(ledger.DirectionOf(entry.Amount)))
	v.Amounts = append(v.Amounts, absAmount(entry.Amount))
}

// DominantNominal returns the most frequent nominal code, or false when
// the vendor has no coding history.
func (v *Vendor) DominantNominal() (string, bool) {
	return v.Nominals.MostCommon()
}

// DominantTaxCode returns the most frequent tax code.
func (v *Vendor) DominantTaxCode() (string, bool) {
	return v.TaxCodes.MostCommon()
}

// DominantDirection returns the most frequent posting direction.
func (v *Vendor) DominantDirection() (ledger.Direction, bool) {
	value, ok := v.Directions.MostCommon()
	return ledger.Direction(value), ok
}

// MedianAmount returns the median absolute posting amount, or false when
// no amounts were recorded.
func (v *Vendor) MedianAmount() (float64, bool) {
	if len(v.Amounts) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(v.Amounts))
	copy(sorted, v.Amounts)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// AmountKey identifies an amount profile: the posting direction plus the
// absolute amount rounded to two decimal places.
type AmountKey struct {
	Direction ledger.Direction
	Amount    float64
}

// KeyFor computes the amount key for a signed amount.
func KeyFor(amount float64) AmountKey {
	return AmountKey{
		Direction: ledger.DirectionOf(amount),
		Amount:    roundAmount(amount),
	}
}

// AmountGroup aggregates coding frequency for all postings sharing an
// amount key, independent of vendor identity.
type AmountGroup struct {
	Key      AmountKey
	Nominals *Counter
	TaxCodes *Counter
}

func newAmountGroup(key AmountKey) *AmountGroup {
	return &AmountGroup{
		Key:      key,
		Nominals: NewCounter(),
		TaxCodes: NewCounter(),
	}
}

// DominantNominal returns the most frequent nominal code for this amount.
func (g *AmountGroup) DominantNominal() (string, bool) {
	return g.Nominals.MostCommon()
}

// DominantTaxCode returns the most frequent tax code for this amount.
func (g *AmountGroup) DominantTaxCode() (string, bool) {
	return g.TaxCodes.MostCommon()
}

func absAmount(amount float64) float64 {
	if amount < 0 {
		return -amount
	}
	return amount
}

// roundAmount rounds |amount| to two decimal places. Decimal arithmetic
// keeps keys stable for values float64 cannot represent exactly.
func roundAmount(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Abs().Round(2).Float64()
	return rounded
}
