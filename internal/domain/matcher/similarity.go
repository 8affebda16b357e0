package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer finds the best match for a query within a corpus of candidate
// strings, on a 0-100 scale. Implementations must be deterministic for
// equal inputs; ties resolve to the earliest corpus entry.
type Scorer interface {
	BestMatch(query string, corpus []string) (match string, score int)
}

// TokenSetScorer scores strings by order-independent token overlap: both
// sides are split into token sets and the similarity of the shared tokens
// against each side's remainder is taken, so "ltd wrights uk" still
// scores 100 against "wrights uk ltd".
type TokenSetScorer struct{}

var _ Scorer = TokenSetScorer{}

// BestMatch returns the highest-scoring corpus entry, or ("", 0) when the
// corpus is empty.
func (TokenSetScorer) BestMatch(query string, corpus []string) (string, int) {
	best := ""
	bestScore := -1
	for _, candidate := range corpus {
		if score := TokenSetRatio(query, candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}

// TokenSetRatio computes the token-set similarity of two strings on a
// 0-100 scale. Tokens common to both sides are factored out, then the
// best pairwise ratio among (common, common+restA, common+restB) wins.
func TokenSetRatio(a, b string) int {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for _, token := range tokensA {
		if containsToken(tokensB, token) {
			common = append(common, token)
		} else {
			onlyA = append(onlyA, token)
		}
	}
	for _, token := range tokensB {
		if !containsToken(tokensA, token) {
			onlyB = append(onlyB, token)
		}
	}

	base := strings.Join(common, " ")
	combinedA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	combinedB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	score := ratio(base, combinedA)
	if s := ratio(base, combinedB); s > score {
		score = s
	}
	if s := ratio(combinedA, combinedB); s > score {
		score = s
	}
	return score
}

// ratio is a normalized Levenshtein similarity on a 0-100 scale.
func ratio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	distance := levenshtein.ComputeDistance(a, b)
	return int(100 * float64(longest-distance) / float64(longest))
}

// tokenSet returns the sorted distinct tokens of s.
func tokenSet(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if _, ok := seen[field]; ok {
			continue
		}
		seen[field] = struct{}{}
		tokens = append(tokens, field)
	}
	sort.Strings(tokens)
	return tokens
}

func containsToken(tokens []string, token string) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}
