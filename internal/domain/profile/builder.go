package profile

import (
	"strings"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/normalize"
)

// Snapshot is the frozen output of a single aggregation pass: vendor
// profiles in first-seen order plus the vendor-agnostic amount groups.
// Scoring code only ever sees a Snapshot; the mutable accumulators used
// during the pass never escape Build.
type Snapshot struct {
	vendors     map[string]*Vendor
	vendorOrder []string
	amounts     map[AmountKey]*AmountGroup
}

// Build aggregates a history snapshot into profiles. Postings whose
// vendor identity normalizes to empty are skipped. Iteration order of the
// input determines counter tie-break order.
func Build(history []ledger.HistoryEntry) *Snapshot {
	s := &Snapshot{
		vendors: make(map[string]*Vendor),
		amounts: make(map[AmountKey]*AmountGroup),
	}
	for _, entry := range history {
		s.addVendor(entry)
		s.addAmount(entry)
	}
	return s
}

func (s *Snapshot) addVendor(entry ledger.HistoryEntry) {
	base := entry.VendorHint
	if base == "" {
		base = entry.DescriptionClean
	}
	key := normalize.Clean(base)
	if key == "" {
		return
	}
	vendor, ok := s.vendors[key]
	if !ok {
		vendor = newVendor(key)
		s.vendors[key] = vendor
		s.vendorOrder = append(s.vendorOrder, key)
	}
	for _, alias := range aliasVariants(key) {
		vendor.addAlias(alias)
	}
	vendor.addAlias(entry.DescriptionClean)
	if entry.VendorHint != "" {
		for _, alias := range aliasVariants(entry.VendorHint) {
			vendor.addAlias(alias)
		}
	}
	vendor.register(entry)
}

func (s *Snapshot) addAmount(entry ledger.HistoryEntry) {
	key := KeyFor(entry.Amount)
	group, ok := s.amounts[key]
	if !ok {
		group = newAmountGroup(key)
		s.amounts[key] = group
	}
	group.Nominals.Add(entry.NominalCode)
	group.TaxCodes.Add(entry.TaxCode)
}

// Vendor looks up a vendor profile by its canonical key.
func (s *Snapshot) Vendor(key string) (*Vendor, bool) {
	vendor, ok := s.vendors[key]
	return vendor, ok
}

// Vendors returns the vendor profiles in first-seen order.
func (s *Snapshot) Vendors() []*Vendor {
	out := make([]*Vendor, 0, len(s.vendorOrder))
	for _, key := range s.vendorOrder {
		out = append(out, s.vendors[key])
	}
	return out
}

// Amount looks up the amount group for a key.
func (s *Snapshot) Amount(key AmountKey) (*AmountGroup, bool) {
	group, ok := s.amounts[key]
	return group, ok
}

// aliasVariants generates the alias set for a seed string: the seed
// itself plus its 2-token and 3-token prefixes when long enough.
func aliasVariants(seed string) []string {
	tokens := strings.Fields(seed)
	variants := []string{seed}
	if len(tokens) >= 2 {
		variants = append(variants, strings.Join(tokens[:2], " "))
	}
	if len(tokens) >= 3 {
		variants = append(variants, strings.Join(tokens[:3], " "))
	}
	return variants
}
