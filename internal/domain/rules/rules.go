// Package rules implements configured pattern rules that override
// matcher suggestions outright. A rule pairs a case-insensitive regex
// over the cleaned description with the nominal and tax codes to apply.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/accountantiq/accountantiq-backend/internal/domain/ledger"
	"github.com/accountantiq/accountantiq-backend/internal/domain/normalize"
)

// Rule maps a description pattern to fixed coding.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
	Nominal string `yaml:"nominal" json:"nominal"`
	TaxCode string `yaml:"tax_code" json:"tax_code"`
}

// ruleConfidence is assigned to rule-overridden suggestions. It matches
// the matcher's ceiling so overrides rank above any scored match while
// still signalling "not certain".
const ruleConfidence = 0.99

// Match returns the first rule whose pattern matches the transaction's
// cleaned description, or false when none does. Invalid patterns are
// skipped.
func Match(rules []Rule, txn ledger.Transaction) (Rule, bool) {
	description := txn.DescriptionClean
	if description == "" {
		description = strings.ToLower(txn.DescriptionRaw)
	}
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(description) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Apply overrides a suggestion with the coding of the first matching
// rule. The suggestion is returned unchanged when no rule matches.
func Apply(rules []Rule, txn ledger.Transaction, suggestion ledger.Suggestion) ledger.Suggestion {
	rule, ok := Match(rules, txn)
	if !ok {
		return suggestion
	}
	overridden := suggestion
	overridden.Nominal = rule.Nominal
	overridden.TaxCode = rule.TaxCode
	overridden.Confidence = ruleConfidence
	overridden.Explanations = append(append([]string(nil), suggestion.Explanations...),
		fmt.Sprintf("Rule '%s' matched and overrode the suggestion", rule.Name))
	return overridden
}

// FromTransaction derives a rule from a reviewed transaction: the first
// three tokens of the cleaned description joined into a loose pattern.
// Returns false when no usable token source exists.
func FromTransaction(txn ledger.Transaction, nominal, taxCode string) (Rule, bool) {
	description := txn.DescriptionClean
	if description == "" {
		description = normalize.Clean(txn.DescriptionRaw)
	}
	tokens := strings.Fields(description)
	if len(tokens) == 0 {
		fallback := strings.TrimSpace(txn.DescriptionRaw)
		if fallback == "" {
			fallback = strings.TrimSpace(txn.AccountID)
		}
		if fallback == "" {
			return Rule{}, false
		}
		tokens = []string{strings.ToLower(fallback)}
	}
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}

	quoted := make([]string, len(tokens))
	for i, token := range tokens {
		quoted[i] = regexp.QuoteMeta(token)
	}

	name := strings.TrimSpace(txn.DescriptionRaw)
	if name == "" {
		name = description
	}
	if name == "" {
		name = txn.ID
	}
	if len(name) > 32 {
		name = name[:32]
	}
	if name == "" && len(txn.ID) >= 8 {
		name = txn.ID[:8]
	}

	if taxCode == "" {
		taxCode = "T0"
	}

	return Rule{
		Name:    name,
		Pattern: strings.Join(quoted, ".*"),
		Nominal: nominal,
		TaxCode: taxCode,
	}, true
}
