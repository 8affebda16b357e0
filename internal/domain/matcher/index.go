package matcher

import (
	"github.com/accountantiq/accountantiq-backend/internal/domain/profile"
)

// aliasIndex is the flattened reverse lookup from every alias string to
// the vendor profile that registered it, plus the full alias list in
// registration order for fuzzy search.
//
// When two vendors generate the same alias (a shared 2-token prefix, for
// example) the later-registered vendor wins the lookup slot. The matcher
// accepts that ambiguity rather than inventing a priority rule.
type aliasIndex struct {
	lookup  map[string]*profile.Vendor
	aliases []string
}

func buildAliasIndex(snapshot *profile.Snapshot) *aliasIndex {
	idx := &aliasIndex{lookup: make(map[string]*profile.Vendor)}
	for _, vendor := range snapshot.Vendors() {
		for _, alias := range vendor.Aliases() {
			if _, seen := idx.lookup[alias]; !seen {
				idx.aliases = append(idx.aliases, alias)
			}
			idx.lookup[alias] = vendor
		}
	}
	return idx
}

func (idx *aliasIndex) resolve(alias string) (*profile.Vendor, bool) {
	vendor, ok := idx.lookup[alias]
	return vendor, ok
}

func (idx *aliasIndex) empty() bool {
	return len(idx.aliases) == 0
}
