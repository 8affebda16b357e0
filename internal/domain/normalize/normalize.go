// Package normalize turns raw bank and ledger descriptions into the
// canonical lowercase form used as the matching key everywhere else.
package normalize

import (
	"regexp"
	"strings"
)

var (
	dateTokenRe    = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	numericTokenRe = regexp.MustCompile(`\b\d+\b`)
	nonAlphaRe     = regexp.MustCompile(`[^a-z\s]`)
	multiSpaceRe   = regexp.MustCompile(`\s+`)
)

// Clean normalizes a description for matching: lowercase, date-shaped and
// standalone numeric tokens removed, everything non-alphabetic stripped,
// whitespace collapsed. Pure and idempotent; never fails.
func Clean(raw string) string {
	lowered := strings.ToLower(raw)
	withoutDates := dateTokenRe.ReplaceAllString(lowered, " ")
	withoutNumbers := numericTokenRe.ReplaceAllString(withoutDates, " ")
	alphaOnly := nonAlphaRe.ReplaceAllString(withoutNumbers, " ")
	squashed := multiSpaceRe.ReplaceAllString(alphaOnly, " ")
	return strings.TrimSpace(squashed)
}
